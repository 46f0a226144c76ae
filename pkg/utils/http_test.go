package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"ai"}`))
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(strings.Repeat("x", 1000)))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	client := NewDefaultHTTPClient()

	t.Run("decodes body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/ok", nil)
		var out struct {
			Name string `json:"name"`
		}
		if err := DoJSON(client, req, &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Name != "ai" {
			t.Errorf("name = %q, want ai", out.Name)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPut, server.URL+"/empty", nil)
		var out map[string]any
		if err := DoJSON(client, req, &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("client error is permanent and truncated", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/bad", nil)
		err := DoJSON(client, req, nil)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if !statusErr.Permanent() {
			t.Error("expected 400 to be permanent")
		}
		if len(statusErr.Body) != 256 {
			t.Errorf("body length = %d, want 256", len(statusErr.Body))
		}
	})

	t.Run("server error is retryable", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/down", nil)
		err := DoJSON(client, req, nil)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.Permanent() {
			t.Error("expected 503 to be retryable")
		}
	})
}

func TestStatusError_Permanent(t *testing.T) {
	tests := map[int]bool{
		400: true,
		401: true,
		404: true,
		408: false,
		429: false,
		500: false,
		503: false,
	}
	for code, want := range tests {
		if got := (&StatusError{StatusCode: code}).Permanent(); got != want {
			t.Errorf("Permanent() for %d = %v, want %v", code, got, want)
		}
	}
}
