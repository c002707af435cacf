package config

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jpalmerr/bugboard"
	"github.com/jpalmerr/bugboard/bugs"
)

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Team Bugs
port: 9191
seed:
  - description: crash on save
    user_id: 2
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	bb, err := bugboard.New(BuildOptions(cfg, nil)...)
	if err != nil {
		t.Fatalf("bugboard.New() error = %v", err)
	}
	if bb.Port() != 9191 {
		t.Errorf("Port() = %d, want 9191", bb.Port())
	}
}

func TestBuildSeed(t *testing.T) {
	got := buildSeed([]SeedBug{
		{Description: "a", UserID: 1},
		{Description: "b", Resolved: true},
	})

	want := []bugs.Bug{
		{Description: "a", UserID: 1},
		{Description: "b", Resolved: true},
	}
	if len(got) != len(want) {
		t.Fatalf("len(buildSeed()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buildSeed()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBuildClient_SendsConfiguredHeaders(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]bugs.Bug{{ID: 1}})
	}))
	defer srv.Close()

	cfg := &Config{
		API: APIConfig{
			BaseURL: srv.URL,
			Timeout: Duration(time.Second),
			Headers: map[string]string{"Authorization": "Bearer abc"},
		},
	}

	client, err := BuildClient(cfg)
	if err != nil {
		t.Fatalf("BuildClient() error = %v", err)
	}
	defer client.Close()

	list, err := client.ListBugs(context.Background())
	if err != nil {
		t.Fatalf("ListBugs() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len(ListBugs()) = %d, want 1", len(list))
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc")
	}
}

func TestBuildClient_InvalidTimeout(t *testing.T) {
	cfg := &Config{API: APIConfig{BaseURL: "http://localhost:8080"}}

	if _, err := BuildClient(cfg); err == nil {
		t.Error("BuildClient() expected error for zero timeout, got nil")
	}
}

func TestBuildActionOptions(t *testing.T) {
	cfg := &Config{CacheTTL: Duration(time.Minute)}

	client, err := BuildClient(&Config{API: APIConfig{BaseURL: "http://localhost:8080", Timeout: Duration(time.Second)}})
	if err != nil {
		t.Fatalf("BuildClient() error = %v", err)
	}

	if _, err := bugs.NewActions(client, BuildActionOptions(cfg, nil)...); err != nil {
		t.Errorf("NewActions() error = %v", err)
	}

	cfg.CacheTTL = Duration(-time.Second)
	if _, err := bugs.NewActions(client, BuildActionOptions(cfg, nil)...); err == nil {
		t.Error("NewActions() expected error for negative cache TTL, got nil")
	}
}
