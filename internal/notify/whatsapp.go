package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultGraphURL = "https://graph.facebook.com/v18.0"

// WhatsApp delivers admission confirmations. With Cloud API credentials it
// sends the message directly; without them it is link-only and Send is a
// no-op (the wa.me link in the HTTP response still works).
type WhatsApp struct {
	token       string
	phoneID     string
	countryCode string
	baseURL     string
	client      *http.Client
	log         zerolog.Logger
}

// NewWhatsApp creates a WhatsApp notifier.
func NewWhatsApp(token, phoneID, countryCode string, log zerolog.Logger) *WhatsApp {
	return &WhatsApp{
		token:       token,
		phoneID:     phoneID,
		countryCode: countryCode,
		baseURL:     defaultGraphURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		log:         log.With().Str("component", "whatsapp").Logger(),
	}
}

// AdmissionMessage is the templated confirmation sent to applicants.
func AdmissionMessage(admissionID, studentName, branch string) string {
	return fmt.Sprintf(
		"🎓 VVIT Admission Successful!\nAdmission ID: %s\nName: %s\nBranch: %s",
		admissionID, studentName, branch)
}

// Link builds a wa.me deep link that opens a prefilled chat to the
// applicant's number.
func (w *WhatsApp) Link(mobile, message string) string {
	return fmt.Sprintf("https://wa.me/%s%s?text=%s",
		w.countryCode, sanitizeNumber(mobile), url.QueryEscape(message))
}

// Send delivers the message through the WhatsApp Cloud API. Returns nil in
// link-only mode. Errors are for the caller to log; delivery failure must
// never fail a stored admission.
func (w *WhatsApp) Send(ctx context.Context, mobile, message string) error {
	if w.token == "" || w.phoneID == "" {
		w.log.Debug().Msg("Cloud API not configured, skipping send")
		return nil
	}

	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                w.countryCode + sanitizeNumber(mobile),
		"type":              "text",
		"text":              map[string]string{"body": message},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp api status %d", resp.StatusCode)
	}
	return nil
}

// sanitizeNumber strips everything but digits so wa.me links stay valid no
// matter how the applicant typed their number.
func sanitizeNumber(mobile string) string {
	var b strings.Builder
	for _, r := range mobile {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
