package model

import (
	"errors"
	"testing"
	"time"
)

func TestBuildPrefix(t *testing.T) {
	ts := time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		branch string
		want   string
	}{
		{"allotted branch", "CSE", "1VJ25CSE"},
		{"lowercase branch is normalized", "ece", "1VJ25ECE"},
		{"padded branch is trimmed", "  ME ", "1VJ25ME"},
		{"empty branch falls back to generic", "", "1VJ25GEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPrefix("1VJ", ts, tt.branch); got != tt.want {
				t.Errorf("BuildPrefix() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestYearSuffixPadsSingleDigit(t *testing.T) {
	ts := time.Date(2107, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := YearSuffix(ts); got != "07" {
		t.Errorf("YearSuffix(2107) = %q, want %q", got, "07")
	}
}

func TestFormatAdmissionID(t *testing.T) {
	tests := []struct {
		name    string
		serial  int
		want    string
		wantErr error
	}{
		{"first serial", 1, "1VJ25CSE001", nil},
		{"mid-range", 42, "1VJ25CSE042", nil},
		{"last representable serial", 999, "1VJ25CSE999", nil},
		{"serial past width is exhausted", 1000, "", ErrSerialExhausted},
		{"zero serial rejected", 0, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatAdmissionID("1VJ25CSE", tt.serial)
			if tt.want != "" {
				if err != nil {
					t.Fatalf("FormatAdmissionID() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("FormatAdmissionID() = %q, want %q", got, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatal("FormatAdmissionID() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("FormatAdmissionID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSerial(t *testing.T) {
	n, err := ParseSerial("1VJ25CSE047")
	if err != nil {
		t.Fatalf("ParseSerial() error = %v", err)
	}
	if n != 47 {
		t.Errorf("ParseSerial() = %d, want 47", n)
	}

	for _, bad := range []string{"", "001", "1VJ25CSEXYZ"} {
		if _, err := ParseSerial(bad); !errors.Is(err, ErrMalformedAdmissionID) {
			t.Errorf("ParseSerial(%q) error = %v, want ErrMalformedAdmissionID", bad, err)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	id, err := FormatAdmissionID("1VJ26AIML", 308)
	if err != nil {
		t.Fatalf("FormatAdmissionID() error = %v", err)
	}
	n, err := ParseSerial(id)
	if err != nil {
		t.Fatalf("ParseSerial(%q) error = %v", id, err)
	}
	if n != 308 {
		t.Errorf("round trip serial = %d, want 308", n)
	}
}
