package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Clock supplies the authoritative time for admission-ID year suffixes.
type Clock interface {
	Now(ctx context.Context) time.Time
}

// TimeService resolves the current time for a configured zone, preferring a
// worldtimeapi-style HTTP endpoint when one is set. Any fetch or parse
// failure falls back to the local clock — the allocation flow never fails
// on the time source (logged at warn so drift is visible).
type TimeService struct {
	apiURL string
	zone   string
	client *http.Client
	log    zerolog.Logger
}

// NewTimeService creates a TimeService. apiURL may be empty, in which case
// only the local clock is used.
func NewTimeService(apiURL, zone string, log zerolog.Logger) *TimeService {
	return &TimeService{
		apiURL: apiURL,
		zone:   zone,
		client: &http.Client{Timeout: 5 * time.Second},
		log:    log.With().Str("component", "time_service").Logger(),
	}
}

// timeAPIResponse is the subset of the worldtimeapi payload we read.
type timeAPIResponse struct {
	Datetime string `json:"datetime"`
}

// Now returns the current time in the configured zone.
func (s *TimeService) Now(ctx context.Context) time.Time {
	if s.apiURL != "" {
		if t, err := s.fetch(ctx); err == nil {
			return t
		} else {
			s.log.Warn().Err(err).Msg("Time API unreachable, using local clock")
		}
	}
	return s.local()
}

func (s *TimeService) fetch(ctx context.Context) (time.Time, error) {
	endpoint := s.apiURL + "/" + s.zone
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch time: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("time api status %d", resp.StatusCode)
	}

	var body timeAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return time.Time{}, fmt.Errorf("decode time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, body.Datetime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: %w", body.Datetime, err)
	}
	return t, nil
}

func (s *TimeService) local() time.Time {
	if loc, err := time.LoadLocation(s.zone); err == nil {
		return time.Now().In(loc)
	}
	return time.Now()
}
