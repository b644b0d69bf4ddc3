// Package file provides the persistent options store: a single JSON
// document holding global defaults and per-model option overrides.
//
// The document is loaded fresh on every read and fully rewritten on every
// write. There is no in-memory cache, so edits made by other processes are
// picked up on the next call; concurrent writers race and the last write
// wins.
package file

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/debug"
	"github.com/rhuss/llm-1min/pkg/observability"
	"github.com/rhuss/llm-1min/pkg/options"
	"github.com/rhuss/llm-1min/pkg/storage"
)

// Document is the on-disk shape of the options file.
type Document struct {
	Defaults map[string]any            `json:"defaults"`
	Models   map[string]map[string]any `json:"models"`
}

// EmptyDocument returns a document with no defaults and no model options.
func EmptyDocument() Document {
	return Document{
		Defaults: map[string]any{},
		Models:   map[string]map[string]any{},
	}
}

// Store reads and writes the options document at a fixed path.
// All methods are safe for concurrent use within one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a store backed by the file at path. The file does not need
// to exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the platform config location
// (<user config dir>/llm-1min/config.json). If that directory cannot be
// created, it falls back to ~/.llm-1min.json.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		cfgDir := filepath.Join(dir, "llm-1min")
		if err := os.MkdirAll(cfgDir, 0o755); err == nil {
			return filepath.Join(cfgDir, "config.json")
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".llm-1min.json")
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current document. It never fails: a missing file, a
// read error, malformed JSON or a document of unexpected shape all yield
// the empty document.
func (s *Store) Load() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			debug.Log("storage", "options file unreadable, using empty document", "path", s.path, "error", err)
		}
		return EmptyDocument()
	}

	doc, err := decodeDocument(data, false)
	if err != nil {
		debug.Log("storage", "options file malformed, using empty document", "path", s.path, "error", err)
		return EmptyDocument()
	}
	return doc
}

// decodeDocument parses data keeping numbers exact: integral literals
// become int, everything else float64. With strict set, top-level keys
// other than defaults and models are rejected.
func decodeDocument(data []byte, strict bool) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if strict {
		dec.DisallowUnknownFields()
	}
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, err
	}
	return normalizeDocument(doc), nil
}

// Save replaces the document on disk. The parent directory is created if
// needed and the file is written with 2-space indentation.
func (s *Store) Save(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(doc); err != nil {
		return err
	}
	observability.OptionWritesTotal.WithLabelValues("document").Inc()
	return nil
}

func (s *Store) save(doc Document) error {
	doc = encodableDocument(normalizeDocument(cloneDocument(doc)))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return api.NewConfigIOError("failed to encode config", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return api.NewConfigIOError("failed to save config", err)
	}

	// Write to a sibling temp file and rename so readers never observe a
	// half-written document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return api.NewConfigIOError("failed to save config", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return api.NewConfigIOError("failed to save config", err)
	}

	debug.Log("storage", "options saved", "path", s.path, "defaults", len(doc.Defaults), "models", len(doc.Models))
	return nil
}

// Defaults returns the global default options.
func (s *Store) Defaults() map[string]any {
	return s.Load().Defaults
}

// ModelOptions returns the options set for modelID, or an empty map.
func (s *Store) ModelOptions(modelID string) map[string]any {
	opts := s.Load().Models[modelID]
	if opts == nil {
		return map[string]any{}
	}
	return opts
}

// SetOption validates value for key and stores it globally (modelID == "")
// or for one model.
func (s *Store) SetOption(key string, value any, modelID string) error {
	norm, err := options.Validate(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	scope := "defaults"
	if modelID != "" {
		scope = "model"
		if doc.Models[modelID] == nil {
			doc.Models[modelID] = map[string]any{}
		}
		doc.Models[modelID][key] = norm
	} else {
		doc.Defaults[key] = norm
	}

	if err := s.save(doc); err != nil {
		return err
	}
	observability.OptionWritesTotal.WithLabelValues(scope).Inc()
	return nil
}

// UnsetOption removes key globally (modelID == "") or for one model and
// reports whether anything was removed. A model whose last option is
// removed disappears from the document. The file is only rewritten when
// something changed.
func (s *Store) UnsetOption(key string, modelID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	scope := "defaults"
	if modelID != "" {
		scope = "model"
		opts, ok := doc.Models[modelID]
		if !ok {
			return false, nil
		}
		if _, ok := opts[key]; !ok {
			return false, nil
		}
		delete(opts, key)
		if len(opts) == 0 {
			delete(doc.Models, modelID)
		}
	} else {
		if _, ok := doc.Defaults[key]; !ok {
			return false, nil
		}
		delete(doc.Defaults, key)
	}

	if err := s.save(doc); err != nil {
		return false, err
	}
	observability.OptionWritesTotal.WithLabelValues(scope).Inc()
	return true, nil
}

// Reset overwrites the document with the empty shape.
func (s *Store) Reset() error {
	return s.Save(EmptyDocument())
}

// Export writes the current document to w as indented JSON.
func (s *Store) Export(w io.Writer) error {
	doc := s.Load()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("exporting options: %w", err)
	}
	return nil
}

// Import replaces the document with the JSON object read from r. Every
// option in the imported document is validated before anything is written.
// Top-level keys other than defaults and models are rejected.
func (s *Store) Import(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("importing options: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("importing options: %w", err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return fmt.Errorf("importing options: %w", storage.ErrInvalidDocument)
	}

	doc, err := decodeDocument(data, true)
	if err != nil {
		return fmt.Errorf("importing options: %w: %v", storage.ErrInvalidDocument, err)
	}

	if err := options.ValidateMap(doc.Defaults); err != nil {
		return err
	}
	for _, opts := range doc.Models {
		if err := options.ValidateMap(opts); err != nil {
			return err
		}
	}

	return s.Save(doc)
}

func cloneDocument(doc Document) Document {
	out := Document{
		Defaults: make(map[string]any, len(doc.Defaults)),
		Models:   make(map[string]map[string]any, len(doc.Models)),
	}
	for k, v := range doc.Defaults {
		out.Defaults[k] = v
	}
	for model, opts := range doc.Models {
		m := make(map[string]any, len(opts))
		for k, v := range opts {
			m[k] = v
		}
		out.Models[model] = m
	}
	return out
}

// normalizeDocument fills nil maps, prunes empty model entries and turns
// decoded JSON numbers into int or float64.
func normalizeDocument(doc Document) Document {
	if doc.Defaults == nil {
		doc.Defaults = map[string]any{}
	}
	if doc.Models == nil {
		doc.Models = map[string]map[string]any{}
	}
	for k, v := range doc.Defaults {
		doc.Defaults[k] = normalizeValue(v)
	}
	for model, opts := range doc.Models {
		if len(opts) == 0 {
			delete(doc.Models, model)
			continue
		}
		for k, v := range opts {
			opts[k] = normalizeValue(v)
		}
	}
	return doc
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
				return int(i)
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeValue(t[k])
		}
		return t
	default:
		return v
	}
}

// encodableDocument rewrites float64 values as number literals that keep a
// fraction or exponent, so an integral float loads back as a float.
func encodableDocument(doc Document) Document {
	for k, v := range doc.Defaults {
		doc.Defaults[k] = encodableValue(v)
	}
	for _, opts := range doc.Models {
		for k, v := range opts {
			opts[k] = encodableValue(v)
		}
	}
	return doc
}

func encodableValue(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return t
		}
		lit := strconv.FormatFloat(t, 'g', -1, 64)
		if !strings.ContainsAny(lit, ".eE") {
			lit += ".0"
		}
		return json.Number(lit)
	case float32:
		return encodableValue(float64(t))
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = encodableValue(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k := range t {
			out[k] = encodableValue(t[k])
		}
		return out
	default:
		return v
	}
}
