package config

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Enabled {
		t.Error("logging should be disabled by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Dir != "" {
		t.Errorf("default log dir = %q, want empty (stderr)", cfg.Logging.Dir)
	}
	if !cfg.Output.Color {
		t.Error("color should be enabled by default")
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("default output format = %q, want %q", cfg.Output.Format, FormatText)
	}
	if cfg.Sentinel.Text == "" || cfg.Sentinel.Heading == "" {
		t.Error("sentinel defaults must be non-empty")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) > 0 {
		t.Errorf("default config is invalid: %v", ValidationErrors(errs))
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "verbose"

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "logging.level" {
		t.Fatalf("expected one logging.level error, got %v", errs)
	}

	// Levels are matched case-insensitively, and empty means default.
	cfg.Logging.Level = "DEBUG"
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("uppercase level rejected: %v", errs)
	}
	cfg.Logging.Level = ""
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("empty level rejected: %v", errs)
	}
}

func TestValidate_OutputFormat(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "yaml"

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "output.format" {
		t.Fatalf("expected one output.format error, got %v", errs)
	}

	cfg.Output.Format = FormatJSON
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("json format rejected: %v", errs)
	}
}

func TestValidate_Sentinel(t *testing.T) {
	cfg := Default()
	cfg.Sentinel.Text = "  "
	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "sentinel.text" {
		t.Fatalf("expected one sentinel.text error, got %v", errs)
	}

	cfg = Default()
	cfg.Sentinel.Text = "line one\nline two"
	cfg.Sentinel.Heading = "## A\n## B"
	errs = cfg.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected two multiline errors, got %v", errs)
	}
	for _, err := range errs {
		if !strings.Contains(err.Error(), "must be a single line") {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	single := ValidationErrors{{Field: "output.format", Value: "yaml", Message: "must be one of: text, json"}}
	if got := single.Error(); got != "output.format: must be one of: text, json (got: yaml)" {
		t.Errorf("unexpected single-error rendering: %q", got)
	}

	multi := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}
	got := multi.Error()
	if !strings.HasPrefix(got, "2 validation errors:") ||
		!strings.Contains(got, "1. a: bad (got: 1)") ||
		!strings.Contains(got, "2. b: worse (got: 2)") {
		t.Errorf("unexpected multi-error rendering: %q", got)
	}
}
