package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Admission IDs have the fixed shape <CollegeCode><YY><BranchCode><Serial>,
// e.g. 1VJ25CSE001. Serials are zero-padded to SerialWidth digits and scoped
// to the (year, branch) prefix.
const (
	SerialWidth = 3
	MaxSerial   = 999

	// GenericBranchCode is used in the ID prefix when the applicant has no
	// allotted branch at allocation time.
	GenericBranchCode = "GEN"
)

// ErrSerialExhausted is returned when a prefix has consumed all serials
// representable in the fixed width. The ID format never wraps or widens.
var ErrSerialExhausted = errors.New("admission serial range exhausted for prefix")

// ErrMalformedAdmissionID is returned when an ID does not end in a
// SerialWidth-digit serial.
var ErrMalformedAdmissionID = errors.New("malformed admission id")

// NormalizeBranchCode uppercases and trims a branch code, substituting the
// generic placeholder when the value is empty.
func NormalizeBranchCode(branch string) string {
	b := strings.ToUpper(strings.TrimSpace(branch))
	if b == "" {
		return GenericBranchCode
	}
	return b
}

// YearSuffix returns the two-digit year component for t.
func YearSuffix(t time.Time) string {
	return fmt.Sprintf("%02d", t.Year()%100)
}

// BuildPrefix composes the serial scope for an admission ID.
func BuildPrefix(collegeCode string, t time.Time, branch string) string {
	return collegeCode + YearSuffix(t) + NormalizeBranchCode(branch)
}

// FormatAdmissionID appends a zero-padded serial to a prefix.
// Serials outside [1, MaxSerial] are rejected — the published ID format is
// fixed width and records already issued must never be ambiguous.
func FormatAdmissionID(prefix string, serial int) (string, error) {
	if serial < 1 {
		return "", fmt.Errorf("serial %d out of range", serial)
	}
	if serial > MaxSerial {
		return "", ErrSerialExhausted
	}
	return fmt.Sprintf("%s%0*d", prefix, SerialWidth, serial), nil
}

// ParseSerial extracts the trailing serial from an admission ID.
func ParseSerial(admissionID string) (int, error) {
	if len(admissionID) <= SerialWidth {
		return 0, ErrMalformedAdmissionID
	}
	n, err := strconv.Atoi(admissionID[len(admissionID)-SerialWidth:])
	if err != nil {
		return 0, ErrMalformedAdmissionID
	}
	return n, nil
}
