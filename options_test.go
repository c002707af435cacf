package bugboard

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jpalmerr/bugboard/bugs"
)

func TestNew_Defaults(t *testing.T) {
	bb, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if bb.Port() != defaultPort {
		t.Errorf("Port() = %v, want %v", bb.Port(), defaultPort)
	}
	if bb.logger != slog.Default() {
		t.Error("logger should default to slog.Default()")
	}
	if bb.Registry() == nil {
		t.Error("Registry() = nil, want a default registry")
	}
	if bb.title != "" {
		t.Errorf("title = %q, want empty (server applies its default)", bb.title)
	}
}

func TestWithPort(t *testing.T) {
	bb, err := New(WithPort(9090))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if bb.Port() != 9090 {
		t.Errorf("Port() = %v, want %v", bb.Port(), 9090)
	}
}

func TestWithPort_Invalid(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{name: "negative", port: -1},
		{name: "too high", port: 65536},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(WithPort(tt.port)); err == nil {
				t.Errorf("New(WithPort(%d)) expected error, got nil", tt.port)
			}
		})
	}
}

func TestWithPort_ValidEdgeCases(t *testing.T) {
	for _, port := range []int{0, 1, 65535} {
		if _, err := New(WithPort(port)); err != nil {
			t.Errorf("New(WithPort(%d)) error = %v", port, err)
		}
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	bb, err := New(WithLogger(logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if bb.logger != logger {
		t.Error("logger was not set")
	}
}

func TestWithLogger_Nil(t *testing.T) {
	if _, err := New(WithLogger(nil)); err == nil {
		t.Error("New(WithLogger(nil)) expected error, got nil")
	}
}

func TestWithTitle(t *testing.T) {
	bb, err := New(WithTitle("Team Bugs"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if bb.title != "Team Bugs" {
		t.Errorf("title = %q, want %q", bb.title, "Team Bugs")
	}
}

func TestWithSeed_Appends(t *testing.T) {
	bb, err := New(
		WithSeed(bugs.Bug{Description: "a"}),
		WithSeed(bugs.Bug{Description: "b"}, bugs.Bug{Description: "c"}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if len(bb.seed) != 3 {
		t.Fatalf("len(seed) = %d, want 3", len(bb.seed))
	}
	for i, want := range []string{"a", "b", "c"} {
		if bb.seed[i].Description != want {
			t.Errorf("seed[%d] = %q, want %q", i, bb.seed[i].Description, want)
		}
	}
}

func TestWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	bb, err := New(WithRegistry(reg))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if bb.Registry() != reg {
		t.Error("Registry() should return the configured registry")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	// vectors without observations are not gathered; registration must not fail
	_ = families
}

func TestWithRegistry_Nil(t *testing.T) {
	if _, err := New(WithRegistry(nil)); err == nil {
		t.Error("New(WithRegistry(nil)) expected error, got nil")
	}
}

func TestWithTracerProvider_Nil(t *testing.T) {
	if _, err := New(WithTracerProvider(nil)); err == nil {
		t.Error("New(WithTracerProvider(nil)) expected error, got nil")
	}
}

func TestWithTracerProvider(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	if _, err := New(WithTracerProvider(provider)); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestWithChangeCallback_NilIsIgnored(t *testing.T) {
	bb, err := New(WithChangeCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(bb.changeCallbacks) != 0 {
		t.Errorf("len(changeCallbacks) = %d, want 0", len(bb.changeCallbacks))
	}
}
