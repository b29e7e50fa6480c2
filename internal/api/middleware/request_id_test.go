package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if captured == "" {
		t.Fatal("expected a generated request id in the context")
	}
	if rr.Header().Get("X-Request-ID") != captured {
		t.Fatalf("response header %q does not match context id %q", rr.Header().Get("X-Request-ID"), captured)
	}
}

func TestRequestIDHonorsClientHeader(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if captured != "client-supplied" {
		t.Fatalf("expected client id to be kept, got %q", captured)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	if got := GetRequestID(context.Background()); got != "" {
		t.Fatalf("expected empty id for bare context, got %q", got)
	}
}
