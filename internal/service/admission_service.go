package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/notify"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/storage"
)

// allocationAttempts bounds the retry loop when a concurrent submission
// races the same prefix and the insert hits the unique index.
const allocationAttempts = 3

// ErrAllocationFailed is surfaced when allocation still collides after the
// bounded retries. Callers treat it as a persistence failure.
var ErrAllocationFailed = errors.New("admission allocation failed after retries")

// MissingDocumentError reports a required upload slot absent from the form.
type MissingDocumentError struct {
	Slot model.DocumentSlot
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("required document missing: %s", e.Slot)
}

// AdmissionStore is the persistence surface the intake flow depends on.
// *repository.AdmissionRepository satisfies it.
type AdmissionStore interface {
	CreateWithAllocation(ctx context.Context, prefix string, a *model.Admission) error
	GetByAdmissionID(ctx context.Context, admissionID string) (*model.Admission, error)
}

// Events fans a committed submission out to the side-effect workers and the
// admin live feed. Implementations must never fail the submission.
type Events interface {
	Publish(ctx context.Context, ev model.AdmissionEvent)
}

// DocumentUpload is one file from the multipart form.
type DocumentUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// AdmissionService orchestrates a submission: document storage, admission-ID
// allocation and atomic record insertion, then decoupled side effects. Only
// the insert is the durability boundary; everything after it is best-effort.
type AdmissionService struct {
	store       AdmissionStore
	docs        storage.Storage
	clock       Clock
	events      Events
	wa          *notify.WhatsApp
	collegeCode string
	log         zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService.
func NewAdmissionService(
	store AdmissionStore,
	docs storage.Storage,
	clock Clock,
	events Events,
	wa *notify.WhatsApp,
	collegeCode string,
	log zerolog.Logger,
) *AdmissionService {
	return &AdmissionService{
		store:       store,
		docs:        docs,
		clock:       clock,
		events:      events,
		wa:          wa,
		collegeCode: collegeCode,
		log:         log.With().Str("component", "admission_service").Logger(),
	}
}

// Submit runs the full intake pipeline for a validated request.
//
// Document uploads are stored first so their references land in the same
// atomic insert; an individual failed slot is reported in MissingDocuments
// rather than failing the submission. A required slot absent from the form
// is a validation failure and nothing is persisted.
func (s *AdmissionService) Submit(
	ctx context.Context,
	req *model.SubmitAdmissionRequest,
	uploads map[model.DocumentSlot]DocumentUpload,
) (*model.SubmitAdmissionResponse, error) {
	if err := checkRequiredDocuments(req, uploads); err != nil {
		return nil, err
	}

	admission := req.ToAdmission()

	var missing []model.DocumentSlot
	for _, slot := range model.DocumentSlots {
		upload, ok := uploads[slot]
		if !ok {
			continue
		}
		url, err := s.docs.Save(ctx, string(slot), upload.Reader, upload.Size, upload.ContentType)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedFileType) || errors.Is(err, storage.ErrFileTooLarge) {
				return nil, err // reject before touching the store
			}
			s.log.Warn().Err(err).Str("slot", string(slot)).Msg("Document store failed")
			missing = append(missing, slot)
			continue
		}
		admission.SetDocumentURL(slot, url)
	}

	now := s.clock.Now(ctx)
	prefix := model.BuildPrefix(s.collegeCode, now, admission.AllottedBranch())

	if err := s.allocateAndRecord(ctx, prefix, admission); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("admission_id", admission.AdmissionID).
		Str("prefix", prefix).
		Msg("Admission recorded")

	s.events.Publish(ctx, model.AdmissionEvent{
		AdmissionID:  admission.AdmissionID,
		StudentName:  admission.StudentName,
		Branch:       model.NormalizeBranchCode(admission.AllottedBranch()),
		Channel:      admission.AdmissionThrough,
		MobileNumber: admission.MobileNumber,
		SubmittedAt:  admission.SubmittedAt,
	})

	message := notify.AdmissionMessage(admission.AdmissionID, admission.StudentName, admission.AllottedBranch())

	return &model.SubmitAdmissionResponse{
		AdmissionID:      admission.AdmissionID,
		SlipURL:          "/api/v1/admissions/" + admission.AdmissionID + "/slip",
		WhatsAppURL:      s.wa.Link(admission.MobileNumber, message),
		Documents:        admission.DocumentURLs(),
		MissingDocuments: missing,
	}, nil
}

// allocateAndRecord performs the transactional allocate-and-insert, retrying
// a bounded number of times when a duplicate ID signals a lost race.
func (s *AdmissionService) allocateAndRecord(ctx context.Context, prefix string, a *model.Admission) error {
	var err error
	for attempt := 1; attempt <= allocationAttempts; attempt++ {
		err = s.store.CreateWithAllocation(ctx, prefix, a)
		if err == nil {
			return nil
		}
		if errors.Is(err, model.ErrSerialExhausted) {
			return err
		}
		if !errors.Is(err, repository.ErrDuplicateAdmissionID) {
			return err
		}
		s.log.Warn().
			Str("prefix", prefix).
			Int("attempt", attempt).
			Msg("Admission ID collision, retrying allocation")
	}
	return fmt.Errorf("%w: %v", ErrAllocationFailed, err)
}

// Get retrieves a record by exact admission-ID match.
func (s *AdmissionService) Get(ctx context.Context, admissionID string) (*model.Admission, error) {
	return s.store.GetByAdmissionID(ctx, admissionID)
}

func checkRequiredDocuments(req *model.SubmitAdmissionRequest, uploads map[model.DocumentSlot]DocumentUpload) error {
	required := []model.DocumentSlot{
		model.SlotPhoto, model.SlotMarksCard, model.SlotAadhaarFront, model.SlotAadhaarBack,
	}
	if req.RequiresCasteCertificate() {
		required = append(required, model.SlotCasteIncome)
	}
	for _, slot := range required {
		if _, ok := uploads[slot]; !ok {
			return &MissingDocumentError{Slot: slot}
		}
	}
	return nil
}
