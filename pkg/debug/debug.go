// Package debug is the logging setup of llm-1min: a slog text handler on
// the command's stderr plus per-category debug output.
//
// Debug output is switched on per category, independent of the log level:
//
//	ONEMIN_DEBUG=providers,storage llm-1min prompt -m gpt-4o hi
//	ONEMIN_LOG_LEVEL=TRACE ONEMIN_DEBUG=providers ...   # also dumps response bodies
//
// Categories:
//
//	providers  HTTP calls to 1min.ai
//	engine     option resolution and prompt submission
//	storage    options document and conversation registry
//	config     settings and API key discovery
//	all        everything
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// LevelTrace is below slog.LevelDebug. Provider response bodies are only
// logged at this level.
const LevelTrace = slog.LevelDebug - 4

// Known lists the accepted category names.
var Known = []string{"providers", "engine", "storage", "config", "all"}

// categories is replaced wholesale by Init and only read afterwards.
var categories = parseCategories(os.Getenv("ONEMIN_DEBUG"))

// Init installs the default slog logger writing to w and selects the
// debug categories. ONEMIN_DEBUG and ONEMIN_LOG_LEVEL win over the values
// passed in, which normally come from the settings file.
func Init(w io.Writer, configCategories, configLevel string) {
	cats := os.Getenv("ONEMIN_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("ONEMIN_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})))
}

// Enabled reports whether debug output is on for category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug record tagged with category when it is enabled.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace is Log at LevelTrace.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceIsEnabled reports whether Trace output for category would be
// written, so callers can skip building large attributes.
func TraceIsEnabled(category string) bool {
	return Enabled(category) && slog.Default().Enabled(context.Background(), LevelTrace)
}

// ParseLevel converts TRACE, DEBUG, INFO, WARN(ING) or ERROR to a level.
// Empty and unknown values mean INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CheckCategories returns an error naming any entry of the comma-separated
// list that is not in Known.
func CheckCategories(list string) error {
	var unknown []string
	for cat := range parseCategories(list) {
		if !isKnown(cat) {
			unknown = append(unknown, cat)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown debug categories %s (known: %s)",
		strings.Join(unknown, ", "), strings.Join(Known, ", "))
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Redact masks a secret for log output. The last four characters of
// longer secrets stay visible so keys can be told apart.
func Redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}

func isKnown(cat string) bool {
	for _, k := range Known {
		if k == cat {
			return true
		}
	}
	return false
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
