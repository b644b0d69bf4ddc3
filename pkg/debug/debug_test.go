package debug

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// restore puts the package state back after a test changes it.
func restore(t *testing.T) {
	t.Helper()
	origCats := categories
	origLogger := slog.Default()
	t.Cleanup(func() {
		categories = origCats
		slog.SetDefault(origLogger)
	})
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "providers", []string{"providers"}},
		{"spaces and case", " Providers , ENGINE ", []string{"providers", "engine"}},
		{"empty segments", "storage,,config,", []string{"storage", "config"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseCategories(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for _, c := range tt.want {
				if !got[c] {
					t.Errorf("category %q missing from %v", c, got)
				}
			}
		})
	}
}

func TestEnabled(t *testing.T) {
	restore(t)

	categories = parseCategories("providers")
	if !Enabled("providers") || Enabled("storage") {
		t.Errorf("providers only: providers=%v storage=%v", Enabled("providers"), Enabled("storage"))
	}

	categories = parseCategories("all")
	for _, c := range Known {
		if !Enabled(c) {
			t.Errorf("%s should be enabled via all", c)
		}
	}

	categories = parseCategories("")
	if Enabled("providers") {
		t.Error("nothing should be enabled without categories")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestCheckCategories(t *testing.T) {
	for _, ok := range []string{"", "all", "providers,engine", " Storage , config "} {
		if err := CheckCategories(ok); err != nil {
			t.Errorf("CheckCategories(%q) = %v", ok, err)
		}
	}

	err := CheckCategories("providers,tools,http")
	if err == nil {
		t.Fatal("expected error for unknown categories")
	}
	if !strings.Contains(err.Error(), "http, tools") {
		t.Errorf("error should list unknown categories sorted: %v", err)
	}
}

func TestInit_RoutesCategoryLogs(t *testing.T) {
	restore(t)
	t.Setenv("ONEMIN_DEBUG", "")
	t.Setenv("ONEMIN_LOG_LEVEL", "")

	var buf bytes.Buffer
	Init(&buf, "storage", "DEBUG")

	Log("storage", "options saved", "path", "/tmp/config.json")
	Log("providers", "hidden")
	Trace("storage", "below debug")

	out := buf.String()
	if !strings.Contains(out, "options saved") || !strings.Contains(out, "debug=storage") {
		t.Errorf("expected storage log line, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("disabled category leaked into output: %q", out)
	}
	if strings.Contains(out, "below debug") {
		t.Errorf("trace record written at DEBUG level: %q", out)
	}
}

func TestInit_EnvOverridesConfig(t *testing.T) {
	restore(t)
	t.Setenv("ONEMIN_DEBUG", "providers")
	t.Setenv("ONEMIN_LOG_LEVEL", "TRACE")

	var buf bytes.Buffer
	Init(&buf, "storage", "ERROR")

	if !Enabled("providers") || Enabled("storage") {
		t.Error("env categories should replace config categories")
	}
	if !TraceIsEnabled("providers") {
		t.Error("TRACE level from env should be active")
	}
	if TraceIsEnabled("engine") {
		t.Error("trace needs the category as well as the level")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate short = %q", got)
	}
	if got := Truncate("this is a long string", 10); got != "this is a ..." {
		t.Errorf("Truncate long = %q", got)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"short", "****"},
		{"sk-1min-abcdef123456", "****3456"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
