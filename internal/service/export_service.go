package service

import (
	"fmt"

	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// registerSheet is the single worksheet of the XLSX export.
const registerSheet = "Admissions"

// registerHeaders lists the export columns in register order.
var registerHeaders = []string{
	"Admission ID", "Student Name", "DOB", "Father Name", "Mother Name",
	"Mobile", "Parent Mobile", "Email", "Permanent Address",
	"Previous College", "Combination", "Category", "Sub Caste",
	"Admission Through", "CET Number", "CET Rank", "Branch (KEA)",
	"Seat Allotted", "Branch (Management)", "Submitted At",
}

// ExportService builds spreadsheet exports of the admissions register.
type ExportService struct{}

// NewExportService creates a new ExportService.
func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildRegisterXLSX renders the full register as an XLSX workbook.
// Optional and unselected-channel fields export as empty cells, mirroring
// the null columns of the store.
func (s *ExportService) BuildRegisterXLSX(admissions []model.Admission) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, header := range registerHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(registerSheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for row, a := range admissions {
		values := []string{
			a.AdmissionID, a.StudentName, a.DOB, a.FatherName, a.MotherName,
			a.MobileNumber, a.ParentMobileNumber, a.Email, a.PermanentAddress,
			a.PreviousCollege, a.PreviousCombination, a.Category, a.SubCaste,
			string(a.AdmissionThrough),
			deref(a.CETNumber), deref(a.CETRank), deref(a.AllottedBranchKEA),
			deref(a.SeatAllotted), deref(a.AllottedBranchManagement),
			a.SubmittedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(registerSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	return f, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
