// Package pmu is the REST client for the remote race-day program source. It
// exposes the day catalog plus the per-race endpoints (participants with
// odds, betting combinations with pool totals, final payout tables) that the
// acquisition pipeline fans out over.
package pmu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lmercadier/turfdata/internal/domain"
)

// querySuffix selects the internet-facing flavor of every endpoint.
const querySuffix = "?specialisation=INTERNET"

// Client is the HTTP client for the program source.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client rooted at baseURL, e.g.
// "https://online.turfinfo.api.pmu.fr/rest/client/61/programme".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// datePath renders a date the way the remote source addresses days.
func datePath(date time.Time) string {
	return date.Format("02012006")
}

// racePath builds the per-race path prefix under a day.
func racePath(date time.Time, race domain.CatalogRace) string {
	return fmt.Sprintf("/%s/R%d/C%d", datePath(date), race.NumReunion, race.NumOrdre)
}

// Program fetches the day's catalog: every race of every meeting, annotated
// with static metadata, the results-published flag, and the finishing order
// when the program already embeds it. A catalog failure is fatal for the
// date, so errors wrap domain.ErrSourceUnavailable.
func (c *Client) Program(ctx context.Context, date time.Time) ([]domain.CatalogRace, error) {
	body, err := c.doGet(ctx, "/"+datePath(date)+querySuffix+"&meteo=true")
	if err != nil {
		return nil, fmt.Errorf("pmu: program %s: %w", datePath(date), err)
	}

	var program apiProgram
	if err := json.Unmarshal(body, &program); err != nil {
		return nil, fmt.Errorf("pmu: decode program %s: %w: %v", datePath(date), domain.ErrMalformedResponse, err)
	}

	return program.ToCatalog(), nil
}

// FetchRunning retrieves the in-progress snapshot for one race: the latest
// direct/reference odds per runner, the cumulative pool totals per betting
// combination, and the runners' attribute snapshot.
func (c *Client) FetchRunning(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error) {
	var upd domain.RaceUpdate
	prefix := racePath(date, race)

	body, err := c.doGet(ctx, prefix+"/participants"+querySuffix)
	if err != nil {
		return upd, fmt.Errorf("pmu: participants %s: %w", race.Key(), err)
	}
	var participants apiParticipants
	if err := json.Unmarshal(body, &participants); err != nil {
		return upd, fmt.Errorf("pmu: decode participants %s: %w: %v", race.Key(), domain.ErrMalformedResponse, err)
	}
	participantsToUpdate(participants.Participants, &upd)

	body, err = c.doGet(ctx, prefix+"/combinaisons"+querySuffix)
	if err != nil {
		return upd, fmt.Errorf("pmu: combinations %s: %w", race.Key(), err)
	}
	var combinations apiCombinations
	if err := json.Unmarshal(body, &combinations); err != nil {
		return upd, fmt.Errorf("pmu: decode combinations %s: %w: %v", race.Key(), domain.ErrMalformedResponse, err)
	}
	combinationsToUpdate(combinations.Combinaisons, &upd)

	return upd, nil
}

// FetchFinished retrieves the terminal data for one race whose results the
// catalog marks as published: the finishing order (carried by the catalog
// itself) and the official payout table.
func (c *Client) FetchFinished(ctx context.Context, date time.Time, race domain.CatalogRace) (domain.RaceUpdate, error) {
	upd := domain.RaceUpdate{OrdreArrivee: race.OrdreArrivee}

	body, err := c.doGet(ctx, racePath(date, race)+"/rapports-definitifs"+querySuffix)
	if err != nil {
		return upd, fmt.Errorf("pmu: final payouts %s: %w", race.Key(), err)
	}
	var bets []APIFinalBet
	if err := json.Unmarshal(body, &bets); err != nil {
		return upd, fmt.Errorf("pmu: decode final payouts %s: %w: %v", race.Key(), domain.ErrMalformedResponse, err)
	}
	finalToUpdate(bets, &upd)

	return upd, nil
}

// doGet performs a GET request against the program source and returns the
// response body. Transport failures and non-2xx statuses wrap
// domain.ErrSourceUnavailable.
func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSourceUnavailable, resp.StatusCode)
	}

	return body, nil
}
