package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/wayfarer-travel/wayfarer-backend/internal/routes"
)

// newTestRouter mounts the full route table. The cases below only exercise
// validation paths that reject a request before any store access.
func newTestRouter() *chi.Mux {
	r := chi.NewRouter()
	routes.SetupRoutes(r)
	return r
}

func doJSON(t *testing.T, router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ``},
		{name: "missing password", body: `{"name":"A","email":"a@x.com"}`},
		{name: "missing email", body: `{"name":"A","password":"pw"}`},
		{name: "missing name", body: `{"email":"a@x.com","password":"pw"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/register", test.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/login", `{"email":"a@x.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password: got status %d, want 400", rec.Code)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing description", body: `{"name":"A","email":"a@x.com","category":"booking","priority":"low"}`},
		{name: "missing email", body: `{"name":"A","category":"booking","priority":"low","description":"help"}`},
		{name: "unknown category", body: `{"name":"A","email":"a@x.com","category":"refunds","priority":"low","description":"help"}`},
		{name: "unknown priority", body: `{"name":"A","email":"a@x.com","category":"booking","priority":"critical","description":"help"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/tickets", test.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("got status %d, want 400", rec.Code)
			}
		})
	}
}

func TestUpdateTicketStatusRequiresCaller(t *testing.T) {
	router := newTestRouter()

	// No user id at all → 401 before any lookup.
	rec := doJSON(t, router, http.MethodPatch, "/api/tickets/abc123",
		`{"status":"Resolved"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing caller: got status %d, want 401", rec.Code)
	}

	// A malformed caller id can never belong to a user.
	rec = doJSON(t, router, http.MethodPatch, "/api/tickets/abc123",
		`{"user_id":"not-a-hex-id","status":"Resolved"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed caller id: got status %d, want 404", rec.Code)
	}
}

func TestPostMessageValidation(t *testing.T) {
	router := newTestRouter()

	// Missing body text fails before the ticket is even looked at.
	rec := doJSON(t, router, http.MethodPost, "/api/tickets/abc123/messages",
		`{"user_id":"whatever"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing body: got status %d, want 400", rec.Code)
	}

	// A malformed ticket id is NotFound.
	rec = doJSON(t, router, http.MethodPost, "/api/tickets/not-a-hex-id/messages",
		`{"user_id":"whatever","body":"hello"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed ticket id: got status %d, want 404", rec.Code)
	}
}

func TestSubscribeValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/alerts/subscribe",
		`{"destination":"Tokyo","min_severity":3}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing email: got status %d, want 400", rec.Code)
	}
}

func TestCreateAlertUnknownCaller(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/alerts",
		`{"user_id":"not-a-hex-id","type":"weather","title":"Typhoon","severity":4}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("malformed caller id: got status %d, want 404", rec.Code)
	}
}

func TestSendResetCodeValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/forgot/send-code", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing email: got status %d, want 400", rec.Code)
	}
}

func TestVerifyCodeResetValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/forgot/verify-code-reset",
		`{"email":"a@x.com","code":"123456"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing new password: got status %d, want 400", rec.Code)
	}
}
