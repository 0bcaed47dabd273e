package service

import (
	"bytes"
	"fmt"
	"os"

	"github.com/signintech/gopdf"
	"github.com/vvitengg/admissions-backend/internal/model"
)

const slipFontName = "main"

// Margins and line metrics for the A4 slip/register layout.
const (
	pdfMargin     = 50.0
	pdfLineHeight = 18.0
	pdfLabelWidth = 150.0
)

// SlipService renders admission documents as PDF: a per-student admission
// slip and the full admissions register for the office.
type SlipService struct {
	fontPath string
}

// NewSlipService creates a SlipService rendering with the TTF at fontPath.
func NewSlipService(fontPath string) *SlipService {
	return &SlipService{fontPath: fontPath}
}

// CheckFont reports whether the configured TTF exists. Rendering fails
// without it, so callers should verify at startup and warn loudly.
func (s *SlipService) CheckFont() error {
	if _, err := os.Stat(s.fontPath); err != nil {
		return fmt.Errorf("slip font %s: %w", s.fontPath, err)
	}
	return nil
}

// RenderSlip produces the admission slip handed to one applicant.
func (s *SlipService) RenderSlip(a *model.Admission) ([]byte, error) {
	pdf, err := s.newDocument()
	if err != nil {
		return nil, err
	}
	pdf.AddPage()

	if err := pdf.SetFont(slipFontName, "", 18); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}
	pdf.SetXY(pdfMargin, pdfMargin)
	if err := pdf.Cell(nil, "VVIT Admission Slip"); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}

	if err := pdf.SetFont(slipFontName, "", 12); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}

	y := pdfMargin + 2*pdfLineHeight
	for _, line := range slipLines(a) {
		pdf.SetXY(pdfMargin, y)
		if err := pdf.Cell(nil, line.label+":"); err != nil {
			return nil, fmt.Errorf("write label: %w", err)
		}
		pdf.SetXY(pdfMargin+pdfLabelWidth, y)
		if err := pdf.Cell(nil, line.value); err != nil {
			return nil, fmt.Errorf("write value: %w", err)
		}
		y += pdfLineHeight
	}

	return finishPDF(pdf)
}

// RenderRegister produces the multi-page register of every admission,
// one labelled block per student with a separator rule.
func (s *SlipService) RenderRegister(admissions []model.Admission) ([]byte, error) {
	pdf, err := s.newDocument()
	if err != nil {
		return nil, err
	}
	pdf.AddPage()

	pageHeight := gopdf.PageSizeA4.H

	if err := pdf.SetFont(slipFontName, "", 16); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}
	pdf.SetXY(pdfMargin, pdfMargin)
	if err := pdf.Cell(nil, "VVIT Student Admission Register"); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}

	if err := pdf.SetFont(slipFontName, "", 10); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}

	y := pdfMargin + 2.5*pdfLineHeight
	for i := range admissions {
		lines := slipLines(&admissions[i])
		blockHeight := float64(len(lines))*pdfLineHeight + 2*pdfLineHeight

		if y+blockHeight > pageHeight-pdfMargin {
			pdf.AddPage()
			y = pdfMargin
		}

		for _, line := range lines {
			pdf.SetXY(pdfMargin, y)
			if err := pdf.Cell(nil, line.label+":"); err != nil {
				return nil, fmt.Errorf("write label: %w", err)
			}
			pdf.SetXY(pdfMargin+pdfLabelWidth, y)
			if err := pdf.Cell(nil, line.value); err != nil {
				return nil, fmt.Errorf("write value: %w", err)
			}
			y += pdfLineHeight
		}

		y += 0.5 * pdfLineHeight
		pdf.SetStrokeColor(128, 128, 128)
		pdf.SetLineWidth(0.5)
		pdf.Line(pdfMargin, y, gopdf.PageSizeA4.W-pdfMargin, y)
		y += 1.5 * pdfLineHeight
	}

	return finishPDF(pdf)
}

func (s *SlipService) newDocument() (*gopdf.GoPdf, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont(slipFontName, s.fontPath); err != nil {
		return nil, fmt.Errorf("load slip font %s: %w", s.fontPath, err)
	}
	return pdf, nil
}

func finishPDF(pdf *gopdf.GoPdf) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type slipLine struct {
	label string
	value string
}

func slipLines(a *model.Admission) []slipLine {
	branch := a.AllottedBranch()
	if branch == "" {
		branch = "-"
	}
	lines := []slipLine{
		{"Admission ID", a.AdmissionID},
		{"Name", a.StudentName},
		{"Date of Birth", a.DOB},
		{"Father's Name", a.FatherName},
		{"Email", a.Email},
		{"Mobile Number", a.MobileNumber},
		{"Admission Through", string(a.AdmissionThrough)},
		{"Allotted Branch", branch},
	}
	if a.AdmissionThrough == model.ChannelKEA && a.CETNumber != nil {
		lines = append(lines, slipLine{"CET Number", *a.CETNumber})
	}
	lines = append(lines, slipLine{"Submitted", a.SubmittedAt.Format("02 Jan 2006 15:04")})
	return lines
}
