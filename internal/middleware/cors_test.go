package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveCORS(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	h := CORS(origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(method, "/api/sessions", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestCORSExplicitOrigin(t *testing.T) {
	rr := serveCORS(t, []string{"http://localhost:3000"}, http.MethodGet, "http://localhost:3000")
	if rr.Code != http.StatusTeapot {
		t.Fatalf("request not forwarded: %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("explicit origin should allow credentials")
	}
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	rr := serveCORS(t, []string{"*"}, http.MethodGet, "http://evil.example")
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://evil.example" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Fatal("wildcard match must not allow credentials")
	}
}

func TestCORSRejectedOrigin(t *testing.T) {
	rr := serveCORS(t, []string{"http://localhost:3000"}, http.MethodGet, "http://other.example")
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("unlisted origin must not be echoed")
	}
}

func TestCORSPreflight(t *testing.T) {
	rr := serveCORS(t, []string{"*"}, http.MethodOptions, "http://localhost:3000")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rr.Code)
	}
}

func TestOrigins(t *testing.T) {
	if got := Origins(""); len(got) != 1 || got[0] != "*" {
		t.Fatalf("unexpected default origins %v", got)
	}
	if got := Origins("http://app"); len(got) != 1 || got[0] != "http://app" {
		t.Fatalf("unexpected origins %v", got)
	}
}
