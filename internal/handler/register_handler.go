package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/response"
	"github.com/vvitengg/admissions-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterHandler handles the admin admissions-register endpoints.
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// ListAdmissions godoc
// GET /api/v1/admin/admissions?page=&per_page=&branch=&channel=
func (h *RegisterHandler) ListAdmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	filter := repository.AdmissionFilter{
		Branch:  c.Query("branch"),
		Channel: model.AdmissionChannel(c.Query("channel")),
	}

	admissions, total, err := h.registerService.List(c.Request.Context(), filter, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := (total + perPage - 1) / perPage
	response.SuccessWithPagination(c, http.StatusOK, admissions, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// ExportXLSX godoc
// GET /api/v1/admin/admissions/export.xlsx
func (h *RegisterHandler) ExportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.registerService.ExportXLSX(c.Request.Context(), &buf); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="admissions_register.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportPDF godoc
// GET /api/v1/admin/admissions/export.pdf
func (h *RegisterHandler) ExportPDF(c *gin.Context) {
	pdf, err := h.registerService.ExportPDF(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="admissions_register.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
