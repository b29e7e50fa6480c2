package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cybercaution/cybercaution/internal/results"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

func testSummary() results.Summary {
	return results.Summary{
		OverallScore:   81,
		AssessmentType: "ransomware",
		FrameworkName:  "NIST IR 8374",
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient("", "token", nil); !errors.Is(err, sharedErrors.ErrAccountURL) {
		t.Fatalf("expected ErrAccountURL, got %v", err)
	}
	if _, err := NewClient("   ", "token", nil); !errors.Is(err, sharedErrors.ErrAccountURL) {
		t.Fatalf("expected ErrAccountURL for blank URL, got %v", err)
	}
}

func TestSaveResultSuccess(t *testing.T) {
	var received SaveRequest
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/results" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotToken = r.Header.Get("X-Auth-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "secret", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if err := client.SaveResult(context.Background(), "user-1", testSummary()); err != nil {
		t.Fatalf("SaveResult returned error: %v", err)
	}

	if gotToken != "secret" {
		t.Errorf("token header = %q, want secret", gotToken)
	}
	if received.UserID != "user-1" || received.Summary.OverallScore != 81 {
		t.Errorf("unexpected payload: %+v", received)
	}
}

func TestSaveResultUnauthenticated(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		client, err := NewClient(srv.URL, "", nil)
		if err != nil {
			t.Fatalf("NewClient returned error: %v", err)
		}

		err = client.SaveResult(context.Background(), "user-1", testSummary())
		if !errors.Is(err, sharedErrors.ErrUnauthenticated) {
			t.Errorf("status %d: expected ErrUnauthenticated, got %v", status, err)
		}
		srv.Close()
	}
}

func TestSaveResultServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, "", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = client.SaveResult(context.Background(), "user-1", testSummary())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, sharedErrors.ErrUnauthenticated) {
		t.Fatal("500 must not map to ErrUnauthenticated")
	}
}

func TestSaveResultEmptyUser(t *testing.T) {
	client, err := NewClient("http://localhost:1", "", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.SaveResult(context.Background(), "", testSummary()); !errors.Is(err, sharedErrors.ErrEmptyUserID) {
		t.Fatalf("expected ErrEmptyUserID, got %v", err)
	}
}

func TestSaveResultTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/", "", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := client.SaveResult(context.Background(), "user-1", testSummary()); err != nil {
		t.Fatalf("SaveResult returned error: %v", err)
	}
	if gotPath != "/api/v1/results" {
		t.Errorf("request path = %q, want /api/v1/results", gotPath)
	}
}
