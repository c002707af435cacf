package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCmd runs the root command with args and returns captured stdout
// and any error. Flags persist on the package-level commands between runs,
// so the shared ones are reset first.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	_ = rootCmd.PersistentFlags().Set("config", "")
	_ = demoCmd.Flags().Set("embedded", "false")
	_ = watchCmd.Flags().Set("interval", "5s")
	_ = watchCmd.Flags().Set("count", "0")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	output, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(output, "bugboard dev") {
		t.Errorf("output missing version line\nGot: %s", output)
	}
}

func TestRunDemo_Embedded(t *testing.T) {
	output, err := executeCmd(t, "demo", "--embedded")
	if err != nil {
		t.Fatalf("demo command error = %v\nOutput: %s", err, output)
	}

	expectedPhrases := []string{
		"> load bugs",
		"> add Bug 1",
		"> remove Bug 1",
		"#2 open     user=1 Bug 2",
		"Unresolved: 1",
		"Assigned to user 1: 1",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunDemo_EmbeddedWithSeed(t *testing.T) {
	configPath := writeConfig(t, `
seed:
  - description: crash on save
    user_id: 1
`)

	output, err := executeCmd(t, "demo", "--embedded", "-c", configPath)
	if err != nil {
		t.Fatalf("demo command error = %v\nOutput: %s", err, output)
	}

	// the seeded bug is still open and assigned alongside Bug 2
	if !strings.Contains(output, "Unresolved: 2") {
		t.Errorf("output missing unresolved count\nGot: %s", output)
	}
	if !strings.Contains(output, "Assigned to user 1: 2") {
		t.Errorf("output missing assigned count\nGot: %s", output)
	}
}

func TestRunDemo_ServerUnavailable(t *testing.T) {
	// nothing listens on port 1
	configPath := writeConfig(t, `
api:
  base_url: http://127.0.0.1:1
  timeout: 500ms
`)

	_, err := executeCmd(t, "demo", "-c", configPath)
	if err == nil {
		t.Fatal("demo command expected error for unreachable server, got nil")
	}
	if !strings.Contains(err.Error(), "load bugs") {
		t.Errorf("error should name the failed step, got: %v", err)
	}
}
