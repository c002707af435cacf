package main

import (
	"strings"
	"testing"
)

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 9090
log_level: debug
api:
  timeout: 3s
cache_ttl: 30s
seed:
  - description: crash on save
  - description: typo on login page
    user_id: 2
`)

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Port:        9090",
		"Log level:   debug",
		"API:         http://localhost:9090 (timeout 3s)",
		"Cache TTL:   30s",
		"Seed bugs:   2",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_CacheNeverExpires(t *testing.T) {
	configPath := writeConfig(t, "port: 8080\n")

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Cache TTL:   never expires") {
		t.Errorf("output missing cache TTL line\nGot: %s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeConfig(t, `
seed:
  - user_id: 1
`)

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "description is required") {
		t.Errorf("error should mention 'description is required', got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunValidate_RequiresConfig(t *testing.T) {
	_, err := executeCmd(t, "validate")
	if err == nil {
		t.Fatal("validate command expected error without --config, got nil")
	}
	if !strings.Contains(err.Error(), "--config is required") {
		t.Errorf("error = %v", err)
	}
}
