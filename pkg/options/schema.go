// Package options defines the typed option schema for 1min.ai prompts and
// the layered merge that turns global defaults, per-model settings and
// explicit per-call overrides into one effective option set.
package options

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rhuss/llm-1min/pkg/api"
)

// Option names.
const (
	ConversationType = "conversation_type"
	WebSearch        = "web_search"
	NumOfSite        = "num_of_site"
	MaxWord          = "max_word"
	IsMixed          = "is_mixed"
)

// MaxWordLimit is the largest accepted max_word.
const MaxWordLimit = 100000

// Conversation types accepted by the provider.
const (
	ConversationTypeChat = "CHAT_WITH_AI"
	ConversationTypeCode = "CODE_GENERATOR"
)

// Kind is the value type of an option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Spec describes one option: its type, default and constraints.
type Spec struct {
	Name        string
	Kind        Kind
	Default     any
	Min, Max    int // KindInt bounds, Max == 0 means unbounded
	Enum        []string
	Description string
}

var schema = []Spec{
	{
		Name:        ConversationType,
		Kind:        KindEnum,
		Default:     ConversationTypeChat,
		Enum:        []string{ConversationTypeChat, ConversationTypeCode},
		Description: "Type of conversation: CHAT_WITH_AI or CODE_GENERATOR",
	},
	{
		Name:        WebSearch,
		Kind:        KindBool,
		Default:     false,
		Description: "Enable web search for real-time information",
	},
	{
		Name:        NumOfSite,
		Kind:        KindInt,
		Default:     3,
		Min:         1,
		Max:         10,
		Description: "Number of sites to search when web_search is enabled (1-10)",
	},
	{
		Name:        MaxWord,
		Kind:        KindInt,
		Default:     500,
		Min:         1,
		Max:         MaxWordLimit,
		Description: "Maximum words to extract from web search results (1-100000)",
	},
	{
		Name:        IsMixed,
		Kind:        KindBool,
		Default:     false,
		Description: "Mix context between different models in conversation",
	},
}

// Schema returns the option specs in display order.
func Schema() []Spec {
	out := make([]Spec, len(schema))
	copy(out, schema)
	return out
}

// Lookup returns the spec for name.
func Lookup(name string) (Spec, bool) {
	for _, s := range schema {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// Names returns the known option names in display order.
func Names() []string {
	names := make([]string, len(schema))
	for i, s := range schema {
		names[i] = s.Name
	}
	return names
}

// Parse converts a command-line string into the typed value for option
// name and validates it.
func Parse(name, raw string) (any, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, unknownOption(name)
	}
	raw = strings.TrimSpace(raw)

	switch spec.Kind {
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, api.NewValidationError(name, fmt.Sprintf("%s must be true or false, got %q", name, raw))
		}
		return b, nil
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, api.NewValidationError(name, fmt.Sprintf("%s must be an integer, got %q", name, raw))
		}
		return Validate(name, n)
	default:
		return Validate(name, raw)
	}
}

// Validate checks value against the spec for name and returns it in its
// canonical Go type (bool, int or string). JSON-decoded numbers are
// accepted for integer options as long as they are integral.
func Validate(name string, value any) (any, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, unknownOption(name)
	}

	switch spec.Kind {
	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return nil, api.NewValidationError(name, fmt.Sprintf("%s must be a boolean, got %T", name, value))
		}
		return b, nil

	case KindInt:
		n, ok := toInt(value)
		if !ok {
			return nil, api.NewValidationError(name, fmt.Sprintf("%s must be an integer, got %v", name, value))
		}
		if n < spec.Min || (spec.Max > 0 && n > spec.Max) {
			if spec.Max > 0 {
				return nil, api.NewValidationError(name, fmt.Sprintf("%s must be between %d and %d", name, spec.Min, spec.Max))
			}
			return nil, api.NewValidationError(name, fmt.Sprintf("%s must be at least %d", name, spec.Min))
		}
		return n, nil

	case KindEnum:
		s, ok := value.(string)
		if ok {
			for _, allowed := range spec.Enum {
				if s == allowed {
					return s, nil
				}
			}
		}
		return nil, api.NewValidationError(name, fmt.Sprintf("%s must be %s", name, strings.Join(spec.Enum, " or ")))
	}

	return nil, unknownOption(name)
}

// ValidateMap validates every entry of m in place, replacing values with
// their canonical types. Unknown option names are rejected.
func ValidateMap(m map[string]any) error {
	for k, v := range m {
		norm, err := Validate(k, v)
		if err != nil {
			return err
		}
		m[k] = norm
	}
	return nil
}

func unknownOption(name string) error {
	return api.NewValidationError(name, fmt.Sprintf("unknown option %q (known: %s)", name, strings.Join(Names(), ", ")))
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
