package domain

import (
	"context"
	"io"
	"time"
)

// RunStatus is the outcome of one day-pipeline run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusPartial   RunStatus = "partial"
	RunStatusSkipped   RunStatus = "skipped"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord is the bookkeeping entry written after each day-pipeline run.
type RunRecord struct {
	ID              string
	Date            time.Time
	Status          RunStatus
	RacesTotal      int
	RacesInProgress int
	RacesFinished   int
	FetchErrors     int
	UnknownBetTypes int
	Detail          map[string]any
	CreatedAt       time.Time
}

// RunStore persists day-pipeline run outcomes.
type RunStore interface {
	Record(ctx context.Context, run RunRecord) error
	ListByDate(ctx context.Context, date time.Time) ([]RunRecord, error)
	ListRecent(ctx context.Context, limit int) ([]RunRecord, error)
}

// LockManager provides distributed locking so two collectors never work the
// same day file concurrently.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// BlobInfo describes a stored object.
type BlobInfo struct {
	Path         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// BlobWriter uploads data to object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
	PutMultipart(ctx context.Context, path string, data io.Reader, partSize int64) error
}

// BlobReader retrieves data from object storage.
type BlobReader interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]BlobInfo, error)
	Exists(ctx context.Context, path string) (bool, error)
}

// Archiver moves finished day documents from local disk to cold storage.
type Archiver interface {
	// ArchiveDay uploads one day's document. It returns ErrNotFound when no
	// local file exists for the date, and skips the upload when the object
	// is already archived.
	ArchiveDay(ctx context.Context, date time.Time) error

	// ArchiveYear bundles every day file of a year into a single JSONL
	// object and uploads it, returning the number of days included.
	ArchiveYear(ctx context.Context, year int) (int, error)
}
