package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/response"
	"github.com/vvitengg/admissions-backend/internal/service"
	"github.com/vvitengg/admissions-backend/internal/storage"
	"github.com/vvitengg/admissions-backend/internal/validator"
)

// AdmissionHandler handles the public intake endpoints.
type AdmissionHandler struct {
	admissionService *service.AdmissionService
	slipService      *service.SlipService
	uploadDir        string
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(admissionService *service.AdmissionService, slipService *service.SlipService, uploadDir string) *AdmissionHandler {
	return &AdmissionHandler{
		admissionService: admissionService,
		slipService:      slipService,
		uploadDir:        uploadDir,
	}
}

// Submit godoc
// POST /api/v1/admissions
// Accepts the multipart intake form and returns the allocated admission ID.
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var req model.SubmitAdmissionRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	uploads := make(map[model.DocumentSlot]service.DocumentUpload)
	for _, slot := range model.DocumentSlots {
		header, err := c.FormFile(string(slot))
		if err != nil {
			continue // absence of required slots is checked by the service
		}
		file, err := header.Open()
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		defer file.Close()

		uploads[slot] = service.DocumentUpload{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	result, err := h.admissionService.Submit(c.Request.Context(), &req, uploads)
	if err != nil {
		var missingDoc *service.MissingDocumentError
		switch {
		case errors.As(err, &missingDoc):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrFileRequired,
				map[string]string{string(missingDoc.Slot): "this document is required"})
		case errors.Is(err, storage.ErrUnsupportedFileType):
			response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
		case errors.Is(err, storage.ErrFileTooLarge):
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
		case errors.Is(err, model.ErrSerialExhausted):
			response.Fail(c, http.StatusConflict, response.ErrSerialExhausted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrPersistence)
		}
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Get godoc
// GET /api/v1/admissions/:admission_id
// Public confirmation lookup by exact admission ID.
func (h *AdmissionHandler) Get(c *gin.Context) {
	admissionID := c.Param("admission_id")
	if !validAdmissionIDParam(admissionID) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	admission, err := h.admissionService.Get(c.Request.Context(), admissionID)
	if err != nil {
		if errors.Is(err, repository.ErrAdmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, admission)
}

// Slip godoc
// GET /api/v1/admissions/:admission_id/slip
// Serves the pre-rendered admission slip, rendering on demand when the slip
// worker has not produced it yet.
func (h *AdmissionHandler) Slip(c *gin.Context) {
	admissionID := c.Param("admission_id")
	if !validAdmissionIDParam(admissionID) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	preRendered := filepath.Join(h.uploadDir, "slips", admissionID+".pdf")
	if _, err := os.Stat(preRendered); err == nil {
		c.Header("Content-Disposition", `inline; filename="`+admissionID+`.pdf"`)
		c.File(preRendered)
		return
	}

	admission, err := h.admissionService.Get(c.Request.Context(), admissionID)
	if err != nil {
		if errors.Is(err, repository.ErrAdmissionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	pdf, err := h.slipService.RenderSlip(admission)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+admissionID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// validAdmissionIDParam rejects path values that cannot be admission IDs
// before they reach the store or the filesystem.
func validAdmissionIDParam(id string) bool {
	if len(id) <= model.SerialWidth || len(id) > 20 {
		return false
	}
	for _, r := range id {
		isDigit := r >= '0' && r <= '9'
		isUpper := r >= 'A' && r <= 'Z'
		if !isDigit && !isUpper {
			return false
		}
	}
	return true
}
