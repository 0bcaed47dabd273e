package service

import (
	"context"
	"fmt"
	"io"

	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/repository"
)

// RegisterStore is the read surface of the admissions register.
// *repository.AdmissionRepository satisfies it.
type RegisterStore interface {
	ListPaginated(ctx context.Context, filter repository.AdmissionFilter, limit, offset int) ([]model.Admission, int, error)
	ListAll(ctx context.Context) ([]model.Admission, error)
}

// RegisterService serves the admin dashboard: paginated listings and the
// XLSX/PDF exports of the full register.
type RegisterService struct {
	store   RegisterStore
	exports *ExportService
	slips   *SlipService
}

// NewRegisterService creates a new RegisterService.
func NewRegisterService(store RegisterStore, exports *ExportService, slips *SlipService) *RegisterService {
	return &RegisterService{store: store, exports: exports, slips: slips}
}

// List returns one register page plus the filtered total.
func (s *RegisterService) List(ctx context.Context, filter repository.AdmissionFilter, limit, offset int) ([]model.Admission, int, error) {
	return s.store.ListPaginated(ctx, filter, limit, offset)
}

// ExportXLSX streams the full register as an XLSX workbook.
func (s *RegisterService) ExportXLSX(ctx context.Context, w io.Writer) error {
	admissions, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list admissions: %w", err)
	}

	f, err := s.exports.BuildRegisterXLSX(admissions)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportPDF renders the full register as a PDF document.
func (s *RegisterService) ExportPDF(ctx context.Context) ([]byte, error) {
	admissions, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admissions: %w", err)
	}
	return s.slips.RenderRegister(admissions)
}
