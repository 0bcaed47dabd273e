package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestTimeServicePrefersAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Asia/Kolkata" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"datetime":"2025-07-14T10:30:00+05:30","timezone":"Asia/Kolkata"}`))
	}))
	defer srv.Close()

	ts := NewTimeService(srv.URL, "Asia/Kolkata", zerolog.Nop())
	got := ts.Now(context.Background())

	want := time.Date(2025, 7, 14, 10, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	if !got.Equal(want) {
		t.Errorf("Now() = %v, want %v", got, want)
	}
}

func TestTimeServiceFallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ts := NewTimeService(srv.URL, "Asia/Kolkata", zerolog.Nop())
	got := ts.Now(context.Background())

	if diff := time.Since(got); diff < 0 || diff > time.Minute {
		t.Errorf("fallback time %v is not close to now", got)
	}
}

func TestTimeServiceFallsBackOnBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"datetime":"not-a-timestamp"}`))
	}))
	defer srv.Close()

	ts := NewTimeService(srv.URL, "UTC", zerolog.Nop())
	got := ts.Now(context.Background())

	if diff := time.Since(got); diff < 0 || diff > time.Minute {
		t.Errorf("fallback time %v is not close to now", got)
	}
}

func TestTimeServiceLocalOnly(t *testing.T) {
	ts := NewTimeService("", "UTC", zerolog.Nop())
	got := ts.Now(context.Background())

	if got.Location().String() != "UTC" {
		t.Errorf("Now() location = %v, want UTC", got.Location())
	}
}
