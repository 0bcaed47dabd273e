package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestAdmissionMessage(t *testing.T) {
	msg := AdmissionMessage("1VJ25CSE001", "Anita Rao", "CSE")
	for _, want := range []string{"1VJ25CSE001", "Anita Rao", "CSE"} {
		if !strings.Contains(msg, want) {
			t.Errorf("AdmissionMessage() missing %q: %q", want, msg)
		}
	}
}

func TestLink(t *testing.T) {
	w := NewWhatsApp("", "", "91", zerolog.Nop())

	link := w.Link("98765 43210", "Admission ID: 1VJ25CSE001")
	if !strings.HasPrefix(link, "https://wa.me/919876543210?text=") {
		t.Errorf("Link() = %q", link)
	}
	if !strings.Contains(link, "Admission+ID%3A+1VJ25CSE001") {
		t.Errorf("Link() message not escaped: %q", link)
	}
}

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "9876543210"},
		{"98765 43210", "9876543210"},
		{"+91-98765-43210", "919876543210"},
		{"(987) 654-3210", "9876543210"},
	}
	for _, tt := range tests {
		if got := sanitizeNumber(tt.in); got != tt.want {
			t.Errorf("sanitizeNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSendLinkOnlyModeIsNoOp(t *testing.T) {
	w := NewWhatsApp("", "", "91", zerolog.Nop())
	if err := w.Send(context.Background(), "9876543210", "hi"); err != nil {
		t.Errorf("Send() in link-only mode error = %v", err)
	}
}

func TestSendCloudAPI(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/PHONE123/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("auth header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"messages":[{"id":"wamid.test"}]}`))
	}))
	defer srv.Close()

	w := NewWhatsApp("tok", "PHONE123", "91", zerolog.Nop())
	w.baseURL = srv.URL

	if err := w.Send(context.Background(), "9876543210", "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got["to"] != "919876543210" {
		t.Errorf("payload to = %v", got["to"])
	}
	if got["messaging_product"] != "whatsapp" {
		t.Errorf("payload messaging_product = %v", got["messaging_product"])
	}
}

func TestSendSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewWhatsApp("tok", "PHONE123", "91", zerolog.Nop())
	w.baseURL = srv.URL

	if err := w.Send(context.Background(), "9876543210", "hello"); err == nil {
		t.Error("Send() expected error on 401")
	}
}
