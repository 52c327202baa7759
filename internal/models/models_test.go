// internal/models/models_test.go
package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/syndeo/internal/appconfig"
)

func TestListQueriesEveryEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"id": "tuned-a"}, {"id": "tuned-b"}},
		})
	}))
	defer server.Close()

	cfg := &appconfig.Config{
		Endpoints: []appconfig.Endpoint{
			{Name: "remote", URL: server.URL + "/v1", Type: "openai"},
			{Name: "offline", URL: "http://127.0.0.1:1", Type: "openai", Models: []string{"configured-model"}},
		},
	}

	listings := List(context.Background(), cfg)
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	// Sorted by endpoint name: offline, remote.
	if listings[0].Endpoint != "offline" {
		t.Fatalf("unexpected order: %+v", listings)
	}
	if len(listings[0].Models) != 1 || listings[0].Models[0] != "configured-model" {
		t.Fatalf("offline endpoint should fall back to configured models: %+v", listings[0])
	}
	if len(listings[1].Models) != 2 || listings[1].Models[0] != "tuned-a" {
		t.Fatalf("remote endpoint listing wrong: %+v", listings[1])
	}
}
