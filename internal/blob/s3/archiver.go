package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// dayFileDateLayout matches the local day-file naming, reused for archive keys.
const dayFileDateLayout = "02_01_2006"

// DayFileSource provides read access to the local day-file tree for archival
// purposes. The local store satisfies this implicitly.
type DayFileSource interface {
	// Path returns the local file path for a date's document.
	Path(date time.Time) string

	// Days lists the dates with a day file in the given year, in
	// chronological order.
	Days(year int) ([]time.Time, error)
}

// ArchiveImpl implements domain.Archiver by copying local day files to an
// S3-compatible bucket. Day files are uploaded verbatim; year bundles are
// serialized to JSONL with one day document per line.
//
// Local files are never deleted here. Pruning the local tree is a separate,
// explicit step to be run after the archive has been verified.
type ArchiveImpl struct {
	writer domain.BlobWriter
	reader domain.BlobReader
	source DayFileSource
}

// NewArchiver creates a new ArchiveImpl.
func NewArchiver(writer domain.BlobWriter, reader domain.BlobReader, source DayFileSource) *ArchiveImpl {
	return &ArchiveImpl{
		writer: writer,
		reader: reader,
		source: source,
	}
}

// ArchiveDay uploads the local day file for the given date to
// archive/<year>/<dd_mm_yyyy>.json. The upload is skipped when the object
// already exists, making repeated archive runs cheap. Returns
// domain.ErrNotFound when no local file exists for the date.
func (a *ArchiveImpl) ArchiveDay(ctx context.Context, date time.Time) error {
	path := dayArchivePath(date)

	exists, err := a.reader.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("s3blob: archive day %s: %w", path, err)
	}
	if exists {
		return nil
	}

	data, err := os.ReadFile(a.source.Path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("s3blob: archive day: %w: %s", domain.ErrNotFound, date.Format(dayFileDateLayout))
		}
		return fmt.Errorf("s3blob: archive day read local: %w", err)
	}

	if err := a.writer.Put(ctx, path, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive day upload: %w", err)
	}
	return nil
}

// ArchiveYear bundles every day file of the given year into a single JSONL
// object at archive/bundles/<year>.jsonl and uploads it as a multipart
// object. Each line carries the date and the full day document. The count of
// bundled days is returned.
func (a *ArchiveImpl) ArchiveYear(ctx context.Context, year int) (int, error) {
	dates, err := a.source.Days(year)
	if err != nil {
		return 0, fmt.Errorf("s3blob: archive year %d: %w", year, err)
	}
	if len(dates) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for _, date := range dates {
		data, err := os.ReadFile(a.source.Path(date))
		if err != nil {
			return 0, fmt.Errorf("s3blob: archive year read %s: %w", date.Format(dayFileDateLayout), err)
		}

		line := struct {
			Date string          `json:"date"`
			Doc  json.RawMessage `json:"doc"`
		}{
			Date: date.Format("2006-01-02"),
			Doc:  json.RawMessage(data),
		}
		if err := enc.Encode(line); err != nil {
			return 0, fmt.Errorf("s3blob: archive year encode %s: %w", date.Format(dayFileDateLayout), err)
		}
	}

	path := yearArchivePath(year)
	if err := a.writer.PutMultipart(ctx, path, &buf, minPartSize); err != nil {
		return 0, fmt.Errorf("s3blob: archive year upload: %w", err)
	}
	return len(dates), nil
}

// dayArchivePath builds the S3 key for a single day file.
//
//	archive/2024/01_03_2024.json
func dayArchivePath(date time.Time) string {
	return fmt.Sprintf("archive/%d/%s.json", date.Year(), date.Format(dayFileDateLayout))
}

// yearArchivePath builds the S3 key for a year bundle.
//
//	archive/bundles/2024.jsonl
func yearArchivePath(year int) string {
	return fmt.Sprintf("archive/bundles/%d.jsonl", year)
}

var _ domain.Archiver = (*ArchiveImpl)(nil)
