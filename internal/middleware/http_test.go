package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PedroFNMDEV/SextoCommit/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRealm(t *testing.T) {
	tokens := auth.NewTokenAuthority(
		"user-secret-0123456789abcdef", "admin-secret-0123456789abcdef",
		time.Hour, time.Hour,
	)
	h := RequireRealm(tokens, auth.RealmAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("garbage token: %d", rec.Code)
	}

	userToken, err := tokens.Issue(auth.RealmUser, 1, "u@example.com", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-realm token: %d", rec.Code)
	}

	adminToken, err := tokens.Issue(auth.RealmAdmin, 1, "a@example.com", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid token: %d", rec.Code)
	}
}

func TestRequireRealmStoresClaims(t *testing.T) {
	tokens := auth.NewTokenAuthority(
		"user-secret-0123456789abcdef", "admin-secret-0123456789abcdef",
		time.Hour, time.Hour,
	)
	var got auth.Claims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFrom(r.Context())
	})
	h := RequireRealm(tokens, auth.RealmUser)(inner)

	token, err := tokens.Issue(auth.RealmUser, 42, "u@example.com", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got.PrincipalID != 42 || got.Email != "u@example.com" {
		t.Fatalf("claims = %+v", got)
	}
}

func TestRateLimit(t *testing.T) {
	h := RateLimit("test", 3, false)(okHandler())

	var last int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("burst not limited: %d", last)
	}

	// A different client keeps its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other client limited: %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")

	if ip := ClientIP(req, false); ip != "203.0.113.7" {
		t.Fatalf("untrusted proxy ip = %s", ip)
	}
	if ip := ClientIP(req, true); ip != "198.51.100.1" {
		t.Fatalf("trusted proxy ip = %s", ip)
	}
}
