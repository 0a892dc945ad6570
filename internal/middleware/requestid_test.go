package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("generated id %q, header %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "kiosk-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "kiosk-42" {
		t.Fatalf("propagated id = %q", seen)
	}
}

func TestRequestIDReplacesUnusableIDs(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	for _, rid := range []string{strings.Repeat("a", 200), "bad id", "tab\tid"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", rid)
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen == rid || len(seen) != 36 {
			t.Fatalf("id %q was not replaced, got %q", rid, seen)
		}
	}
}
