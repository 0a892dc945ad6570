package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	tests := []struct {
		name      string
		allowed   []string
		origin    string
		method    string
		wantCode  int
		wantAllow string
		wantCreds string
	}{
		{name: "allowed origin", allowed: []string{"https://kiosk.test"}, origin: "https://kiosk.test", method: http.MethodGet, wantCode: http.StatusTeapot, wantAllow: "https://kiosk.test", wantCreds: "true"},
		{name: "unknown origin", allowed: []string{"https://kiosk.test"}, origin: "https://evil.test", method: http.MethodGet, wantCode: http.StatusTeapot},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://any.test", method: http.MethodGet, wantCode: http.StatusTeapot, wantAllow: "https://any.test"},
		{name: "preflight", allowed: []string{"https://kiosk.test"}, origin: "https://kiosk.test", method: http.MethodOptions, wantCode: http.StatusNoContent, wantAllow: "https://kiosk.test", wantCreds: "true"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/v1/styles", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			CORS(tc.allowed)(next).ServeHTTP(rec, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tc.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Fatalf("allow origin = %q, want %q", got, tc.wantAllow)
			}
			if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != tc.wantCreds {
				t.Fatalf("allow credentials = %q, want %q", got, tc.wantCreds)
			}
		})
	}
}
