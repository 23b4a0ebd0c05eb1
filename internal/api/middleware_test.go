package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventmarket/internal/auth"
)

func TestBearerAuth_MissingHeader(t *testing.T) {
	h := BearerAuth("s")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBearerAuth_RequireRole(t *testing.T) {
	tok, err := auth.Issue("s", "vendor-1", auth.RoleVendor, "", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen *auth.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	vendorOnly := BearerAuth("s")(RequireRole(auth.RoleVendor)(inner))
	req := httptest.NewRequest(http.MethodGet, "/bookings/vendor", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	vendorOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen == nil || seen.ID != "vendor-1" {
		t.Fatalf("principal not attached: %+v", seen)
	}

	adminOnly := BearerAuth("s")(RequireRole(auth.RoleAdmin)(inner))
	rec = httptest.NewRecorder()
	adminOnly.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
