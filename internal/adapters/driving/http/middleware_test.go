package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/storefront-search/internal/adapters/driven/auth"
	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid bearer token", "Bearer abc123", "abc123"},
		{"bearer with extra spaces", "Bearer   token-with-spaces   ", "token-with-spaces"},
		{"lowercase bearer", "bearer token123", "token123"},
		{"empty header", "", ""},
		{"no bearer prefix", "token123", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if result := extractBearerToken(req); result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestGetAdminClaims(t *testing.T) {
	if GetAdminClaims(context.Background()) != nil {
		t.Error("expected nil for context without claims")
	}

	claims := &domain.AdminClaims{ActorID: "user_01", ActorType: domain.ActorTypeUser}
	ctx := context.WithValue(context.Background(), adminClaimsKey, claims)
	if got := GetAdminClaims(ctx); got != claims {
		t.Errorf("expected stored claims, got %+v", got)
	}
}

func TestAdminAuthMiddleware_SignedTokens(t *testing.T) {
	signer := auth.NewAdapter("test-secret")
	now := time.Now()

	sign := func(actorType string, expiresAt time.Time) string {
		token, err := signer.GenerateToken(&domain.AdminClaims{
			ActorID:   "user_01",
			ActorType: actorType,
			IssuedAt:  now.Add(-time.Minute).Unix(),
			ExpiresAt: expiresAt.Unix(),
		})
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		return token
	}

	otherSigner := auth.NewAdapter("other-secret")
	forged, err := otherSigner.GenerateToken(&domain.AdminClaims{
		ActorID: "user_01", ActorType: domain.ActorTypeUser, ExpiresAt: now.Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantError  string
	}{
		{"admin user", sign(domain.ActorTypeUser, now.Add(time.Hour)), http.StatusOK, ""},
		{"customer actor", sign("customer", now.Add(time.Hour)), http.StatusForbidden, "admin access required"},
		{"expired", sign(domain.ActorTypeUser, now.Add(-time.Hour)), http.StatusUnauthorized, "token expired"},
		{"wrong secret", forged, http.StatusUnauthorized, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *domain.AdminClaims
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetAdminClaims(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/admin/search-stats", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rr := httptest.NewRecorder()

			NewAdminAuthMiddleware(signer).Authenticate(handler).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantError != "" && !strings.Contains(rr.Body.String(), tt.wantError) {
				t.Errorf("expected error %q, got %s", tt.wantError, rr.Body.String())
			}
			if tt.wantStatus == http.StatusOK && (seen == nil || seen.ActorID != "user_01") {
				t.Errorf("expected claims in context, got %+v", seen)
			}
		})
	}
}

func TestAdminAuthMiddleware_NoVerifier(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/admin/search-stats", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()

	NewAdminAuthMiddleware(nil).Authenticate(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
	if called {
		t.Error("handler must not run without a verifier")
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	middleware := NewLoggingMiddleware(logger, nil)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	middleware.Handler(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "path=/test") || !strings.Contains(out, "status=418") {
		t.Errorf("expected request to be logged, got %q", out)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	var buf bytes.Buffer
	middleware := NewRecoveryMiddleware(slog.New(slog.NewTextHandler(&buf, nil)))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	middleware.Handler(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("expected panic to be logged, got %q", buf.String())
	}
}

func TestCORSMiddleware(t *testing.T) {
	middleware := NewCORSMiddleware([]string{"https://shop.example.com"})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/store/search", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rr := httptest.NewRecorder()
	middleware.Handler(handler).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "https://shop.example.com" {
		t.Errorf("expected CORS origin header to be set")
	}

	// Preflight
	req = httptest.NewRequest("OPTIONS", "/store/search", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rr = httptest.NewRecorder()
	middleware.Handler(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204 for preflight, got %d", rr.Code)
	}

	// Disallowed origin
	req = httptest.NewRequest("GET", "/store/search", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	middleware.Handler(handler).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header for disallowed origin")
	}
}

func TestResponseWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rw.statusCode)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected underlying status 404, got %d", rr.Code)
	}
}
