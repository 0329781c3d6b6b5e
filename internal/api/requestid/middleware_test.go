package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeneratesID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rr.Header().Get(Header); got != seen {
		t.Fatalf("response header %q does not match context id %q", got, seen)
	}
}

func TestPropagatesInboundID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "trace-me-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if seen != "trace-me-123" {
		t.Fatalf("expected inbound id to be kept, got %q", seen)
	}
}
