package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/notify"
	"github.com/vvitengg/admissions-backend/internal/repository"
	"github.com/vvitengg/admissions-backend/internal/service"
	"github.com/vvitengg/admissions-backend/internal/validator"
)

type stubStore struct {
	serials map[string]int
	records map[string]*model.Admission
}

func (s *stubStore) CreateWithAllocation(ctx context.Context, prefix string, a *model.Admission) error {
	serial := s.serials[prefix] + 1
	id, err := model.FormatAdmissionID(prefix, serial)
	if err != nil {
		return err
	}
	s.serials[prefix] = serial
	a.AdmissionID = id
	a.SubmittedAt = time.Now()
	copied := *a
	s.records[id] = &copied
	return nil
}

func (s *stubStore) GetByAdmissionID(ctx context.Context, admissionID string) (*model.Admission, error) {
	a, ok := s.records[admissionID]
	if !ok {
		return nil, repository.ErrAdmissionNotFound
	}
	return a, nil
}

type stubStorage struct{}

func (stubStorage) Save(ctx context.Context, slot string, r io.Reader, size int64, contentType string) (string, error) {
	return "/uploads/" + slot + "_test.jpg", nil
}

type stubClock struct{}

func (stubClock) Now(ctx context.Context) time.Time {
	return time.Date(2025, 7, 14, 10, 30, 0, 0, time.UTC)
}

type stubEvents struct{}

func (stubEvents) Publish(ctx context.Context, ev model.AdmissionEvent) {}

func testRouter(t *testing.T) (*gin.Engine, *stubStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	store := &stubStore{
		serials: make(map[string]int),
		records: make(map[string]*model.Admission),
	}
	wa := notify.NewWhatsApp("", "", "91", zerolog.Nop())
	svc := service.NewAdmissionService(store, stubStorage{}, stubClock{}, stubEvents{}, wa, "1VJ", zerolog.Nop())
	h := NewAdmissionHandler(svc, service.NewSlipService("/nonexistent/font.ttf"), t.TempDir())

	r := gin.New()
	r.POST("/api/v1/admissions", h.Submit)
	r.GET("/api/v1/admissions/:admission_id", h.Get)
	return r, store
}

func buildForm(t *testing.T, fields map[string]string, slots []string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, slot := range slots {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+slot+`"; filename="`+slot+`.jpg"`)
		h.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part %s: %v", slot, err)
		}
		if _, err := part.Write([]byte("fake-jpeg")); err != nil {
			t.Fatalf("write part %s: %v", slot, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"student_name":        "Anita Rao",
		"dob":                 "2007-03-12",
		"father_name":         "Suresh Rao",
		"mobile_number":       "9876543210",
		"email":               "anita@example.com",
		"admission_through":   "KEA",
		"cet_number":          "CET123456",
		"allotted_branch_kea": "CSE",
	}
}

var allSlots = []string{"photo", "marks_card", "aadhaar_front", "aadhaar_back", "caste_income"}

func TestSubmitHandlerSuccess(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := buildForm(t, validFields(), allSlots)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			AdmissionID string `json:"admission_id"`
			SlipURL     string `json:"slip_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.AdmissionID != "1VJ25CSE001" {
		t.Errorf("admission_id = %q, want 1VJ25CSE001", resp.Data.AdmissionID)
	}
	if resp.Data.SlipURL != "/api/v1/admissions/1VJ25CSE001/slip" {
		t.Errorf("slip_url = %q", resp.Data.SlipURL)
	}
}

func TestSubmitHandlerValidationError(t *testing.T) {
	r, store := testRouter(t)

	fields := validFields()
	delete(fields, "mobile_number")
	body, contentType := buildForm(t, fields, allSlots)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %q", resp.Error.Code)
	}
	if _, ok := resp.Error.Fields["mobile_number"]; !ok {
		t.Errorf("fields = %v, want mobile_number entry", resp.Error.Fields)
	}
	if len(store.records) != 0 {
		t.Error("record persisted despite validation failure")
	}
}

func TestSubmitHandlerChannelFieldEnforced(t *testing.T) {
	r, _ := testRouter(t)

	// KEA without CET number must fail binding (required_if).
	fields := validFields()
	delete(fields, "cet_number")
	body, contentType := buildForm(t, fields, allSlots)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitHandlerMissingDocument(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := buildForm(t, validFields(), []string{"photo", "marks_card", "aadhaar_front"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "FILE_REQUIRED" {
		t.Errorf("error code = %q, want FILE_REQUIRED", resp.Error.Code)
	}
	if _, ok := resp.Error.Fields["aadhaar_back"]; !ok {
		t.Errorf("fields = %v, want aadhaar_back entry", resp.Error.Fields)
	}
}

func TestGetHandler(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := buildForm(t, validFields(), allSlots)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup submit status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admissions/1VJ25CSE001", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admissions/1VJ25CSE999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown ID status = %d, want 404", rec.Code)
	}

	// Path values that cannot be admission IDs are rejected outright.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admissions/..%2Fetc", nil))
	if rec.Code != http.StatusBadRequest && rec.Code != http.StatusNotFound {
		t.Errorf("traversal path status = %d", rec.Code)
	}
}
