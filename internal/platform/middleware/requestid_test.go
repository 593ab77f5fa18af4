package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// serveWithRequestID runs a request through the middleware and returns
// the id seen by the handler and the recorded response.
func serveWithRequestID(t *testing.T, incomingID string) (string, *httptest.ResponseRecorder) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/account", nil)
	if incomingID != "" {
		req.Header.Set(chimiddleware.RequestIDHeader, incomingID)
	}

	var captured string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	h.ServeHTTP(rec, req)

	return captured, rec
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, rec := serveWithRequestID(t, "")

	if captured == "" {
		t.Fatal("expected generated request ID")
	}
	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != captured {
		t.Fatalf("expected response header %q, got %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDPreservesIncomingHeader(t *testing.T) {
	captured, rec := serveWithRequestID(t, "client-retry-7")

	if captured != "client-retry-7" {
		t.Fatalf("expected request ID to remain client-retry-7, got %q", captured)
	}
	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != "client-retry-7" {
		t.Fatalf("expected header client-retry-7, got %q", header)
	}
}

func TestRequestIDReplacesInvalidHeaders(t *testing.T) {
	tests := []struct {
		name    string
		inputID string
		wantNew bool
	}{
		{"valid uuid kept", "550e8400-e29b-41d4-a716-446655440000", false},
		{"traceparent-shaped id kept", "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01", false},
		{"printable punctuation kept", "trace:abc-123_def.456", false},
		{"max length kept", strings.Repeat("x", 128), false},
		{"over max length replaced", strings.Repeat("a", 129), true},
		{"newline replaced (log injection)", "valid\ninjected-line", true},
		{"carriage return replaced", "valid\rinjected", true},
		{"null byte replaced", "valid\x00null", true},
		{"tab replaced", "valid\ttab", true},
		{"high byte replaced", "valid\x80high", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			captured, _ := serveWithRequestID(t, tc.inputID)

			if tc.wantNew {
				if captured == tc.inputID {
					t.Fatalf("expected new UUID, but got original: %q", captured)
				}
				if _, err := uuid.Parse(captured); err != nil {
					t.Fatalf("expected valid UUID, got %q: %v", captured, err)
				}
			} else if captured != tc.inputID {
				t.Fatalf("expected %q, got %q", tc.inputID, captured)
			}
		})
	}
}

func TestIsValidRequestIDBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"empty", "", false},
		{"single char", "a", true},
		{"length 128", strings.Repeat("a", 128), true},
		{"length 129", strings.Repeat("a", 129), false},
		{"just below space 0x1F", "a\x1fb", false},
		{"space 0x20", "a b", true},
		{"tilde 0x7E", "a~b", true},
		{"DEL 0x7F", "a\x7fb", false},
		{"first high byte 0x80", "a\x80b", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isValidRequestID(tc.id); got != tc.valid {
				t.Errorf("isValidRequestID(%q) = %v, want %v", tc.id, got, tc.valid)
			}
		})
	}
}

func TestIsValidRequestIDFullByteSweep(t *testing.T) {
	for c := 0; c <= 0xFF; c++ {
		id := "acct" + string(byte(c)) + "req"
		want := c >= 0x20 && c <= 0x7E
		if got := isValidRequestID(id); got != want {
			t.Errorf("isValidRequestID with byte 0x%02X = %v, want %v", c, got, want)
		}
	}
}

func TestRequestIDContextValueMatchesHeader(t *testing.T) {
	captured, rec := serveWithRequestID(t, "support-ticket-4711")

	headerValue := rec.Header().Get(chimiddleware.RequestIDHeader)
	if captured != headerValue {
		t.Fatalf("context value %q does not match header value %q", captured, headerValue)
	}
}

func TestRequestIDUniqueAcrossRequests(t *testing.T) {
	ids := make(map[string]bool)
	for i := range 10 {
		_, rec := serveWithRequestID(t, "")

		id := rec.Header().Get(chimiddleware.RequestIDHeader)
		if ids[id] {
			t.Fatalf("duplicate request ID generated on iteration %d: %s", i, id)
		}
		ids[id] = true
	}
}

func TestRequestIDPreservesOtherHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/account/friends/friend-1", nil)
	req.Header.Set("Authorization", "Bearer token")

	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Fatal("Authorization header was modified")
		}
		w.WriteHeader(http.StatusCreated)
	}))

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
