package service

import (
	"testing"
	"time"

	"github.com/vvitengg/admissions-backend/internal/model"
)

func sampleAdmissions() []model.Admission {
	cet := "CET123456"
	branch := "CSE"
	seat := "MGMT"
	return []model.Admission{
		{
			AdmissionID:       "1VJ25CSE001",
			StudentName:       "Anita Rao",
			DOB:               "2007-03-12",
			MobileNumber:      "9876543210",
			Email:             "anita@example.com",
			AdmissionThrough:  model.ChannelKEA,
			CETNumber:         &cet,
			AllottedBranchKEA: &branch,
			SubmittedAt:       time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC),
		},
		{
			AdmissionID:      "1VJ25GEN001",
			StudentName:      "Rahul Shetty",
			MobileNumber:     "9812345678",
			Email:            "rahul@example.com",
			AdmissionThrough: model.ChannelManagement,
			SeatAllotted:     &seat,
			SubmittedAt:      time.Date(2025, 7, 14, 11, 0, 0, 0, time.UTC),
		},
	}
}

func TestBuildRegisterXLSX(t *testing.T) {
	f, err := NewExportService().BuildRegisterXLSX(sampleAdmissions())
	if err != nil {
		t.Fatalf("BuildRegisterXLSX() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != registerSheet {
		t.Fatalf("sheets = %v, want [%s]", sheets, registerSheet)
	}

	rows, err := f.GetRows(registerSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 { // header + two records
		t.Fatalf("row count = %d, want 3", len(rows))
	}

	if rows[0][0] != "Admission ID" || rows[0][1] != "Student Name" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][0] != "1VJ25CSE001" {
		t.Errorf("first record ID = %q", rows[1][0])
	}

	// Unselected-channel columns export empty. Seat Allotted is column 18.
	if got := cellOrEmpty(rows[1], 17); got != "" {
		t.Errorf("KEA record has seat allotted %q, want empty", got)
	}
	if got := cellOrEmpty(rows[2], 17); got != "MGMT" {
		t.Errorf("management record seat allotted = %q, want MGMT", got)
	}
}

func TestBuildRegisterXLSXEmpty(t *testing.T) {
	f, err := NewExportService().BuildRegisterXLSX(nil)
	if err != nil {
		t.Fatalf("BuildRegisterXLSX() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(registerSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("empty register rows = %d, want header only", len(rows))
	}
}

// cellOrEmpty handles excelize trimming trailing empty cells from rows.
func cellOrEmpty(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return row[col]
}
