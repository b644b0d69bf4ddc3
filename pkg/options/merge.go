package options

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rhuss/llm-1min/pkg/api"
)

// Overrides records the options a caller explicitly set for a single call.
// Presence is what matters: an override equal to the schema default still
// wins over defaults and per-model settings.
type Overrides struct {
	values map[string]any
}

// Set validates value for name and records it as explicitly set.
func (o *Overrides) Set(name string, value any) error {
	norm, err := Validate(name, value)
	if err != nil {
		return err
	}
	if o.values == nil {
		o.values = make(map[string]any)
	}
	o.values[name] = norm
	return nil
}

// SetString parses raw for name and records it.
func (o *Overrides) SetString(name, raw string) error {
	v, err := Parse(name, raw)
	if err != nil {
		return err
	}
	return o.Set(name, v)
}

// IsSet reports whether name was explicitly set.
func (o Overrides) IsSet(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Len returns the number of explicit overrides.
func (o Overrides) Len() int {
	return len(o.values)
}

// Map returns a copy of the explicit overrides.
func (o Overrides) Map() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

// ParseAssignments builds Overrides from "key=value" strings as passed with
// repeated -o flags.
func ParseAssignments(assignments []string) (Overrides, error) {
	var o Overrides
	for _, a := range assignments {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return Overrides{}, api.NewValidationError(a, fmt.Sprintf("option %q must have the form key=value", a))
		}
		if err := o.SetString(strings.TrimSpace(key), value); err != nil {
			return Overrides{}, err
		}
	}
	return o, nil
}

// Merge layers defaults, per-model options and explicit overrides. Later
// layers win key by key; nested values are replaced, never merged.
func Merge(defaults, model, explicit map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(model)+len(explicit))
	for _, layer := range []map[string]any{defaults, model, explicit} {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Effective is the typed view of a merged option set.
type Effective struct {
	ConversationType string
	WebSearch        bool
	NumOfSite        int
	MaxWord          int
	IsMixed          bool
}

// DefaultEffective returns the schema defaults.
func DefaultEffective() Effective {
	return Effective{
		ConversationType: ConversationTypeChat,
		WebSearch:        false,
		NumOfSite:        3,
		MaxWord:          500,
		IsMixed:          false,
	}
}

// Resolve converts a merged option map into Effective. Missing options take
// their schema default; unknown keys are ignored; known keys holding invalid
// values are rejected with a validation error.
func Resolve(merged map[string]any) (Effective, error) {
	eff := DefaultEffective()

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, known := Lookup(k); !known {
			continue
		}
		v, err := Validate(k, merged[k])
		if err != nil {
			return Effective{}, err
		}
		switch k {
		case ConversationType:
			eff.ConversationType = v.(string)
		case WebSearch:
			eff.WebSearch = v.(bool)
		case NumOfSite:
			eff.NumOfSite = v.(int)
		case MaxWord:
			eff.MaxWord = v.(int)
		case IsMixed:
			eff.IsMixed = v.(bool)
		}
	}
	return eff, nil
}
