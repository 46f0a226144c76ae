package httpremote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/defeedco/foryou/pkg/interests"
	"github.com/defeedco/foryou/pkg/syncbridge"
	"github.com/defeedco/foryou/pkg/utils"
	"github.com/rs/zerolog"
)

func TestClient_Push(t *testing.T) {
	logger := zerolog.Nop()

	var gotAuth, gotKey, gotMethod string
	var gotBody snapshotPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", &logger)
	err := client.Push(context.Background(), syncbridge.PushRequest{
		AuthToken:      "token-1",
		Snapshot:       syncbridge.Snapshot{Interests: interests.Map{"ai": 10}, ReadCount: 4},
		IdempotencyKey: "key-1",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotAuth != "Bearer token-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotKey != "key-1" {
		t.Errorf("Idempotency-Key = %q", gotKey)
	}
	if gotBody.Interests["ai"] != 10 || gotBody.ReadCount != 4 {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestClient_Pull(t *testing.T) {
	logger := zerolog.Nop()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != interestsPath || r.Header.Get("Authorization") != "Bearer token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"interests":{"ai":12.5,"space":3},"readCount":9}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, &logger)

	t.Run("decodes snapshot", func(t *testing.T) {
		snapshot, err := client.Pull(context.Background(), "token-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snapshot.Interests["ai"] != 12.5 || snapshot.Interests["space"] != 3 {
			t.Errorf("interests = %v", snapshot.Interests)
		}
		if snapshot.ReadCount != 9 {
			t.Errorf("read count = %d, want 9", snapshot.ReadCount)
		}
	})

	t.Run("unauthorized is a permanent status error", func(t *testing.T) {
		_, err := client.Pull(context.Background(), "wrong")

		var statusErr *utils.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusUnauthorized || !statusErr.Permanent() {
			t.Errorf("unexpected status error: %+v", statusErr)
		}
	})
}
