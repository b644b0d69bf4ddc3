package onemin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// extractor pulls the answer out of a decoded feature response. ok is
// false when the response does not have the shape the extractor knows.
type extractor struct {
	name string
	fn   func(body map[string]any) (value any, ok bool)
}

// extractors are tried in order; the response schema is not fixed by the
// provider, so several known shapes are accepted. When none matches, the
// whole body is used.
var extractors = []extractor{
	{"aiRecord.aiRecordDetail.resultObject", func(body map[string]any) (any, bool) {
		v := lookup(body, "aiRecord", "aiRecordDetail", "resultObject")
		return v, truthy(v)
	}},
	{"result.response", func(body map[string]any) (any, bool) {
		v := lookup(body, "result", "response")
		return v, truthy(v)
	}},
	{"data", func(body map[string]any) (any, bool) {
		v, ok := body["data"]
		return v, ok
	}},
}

// extractText decodes a feature response body and renders the answer as
// text. It also returns the name of the strategy that matched.
func extractText(data []byte) (string, string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return "", "", err
	}

	body, isObject := decoded.(map[string]any)
	if isObject {
		for _, ex := range extractors {
			if v, ok := ex.fn(body); ok {
				return renderValue(v), ex.name, nil
			}
		}
	}
	return renderValue(decoded), "body", nil
}

// lookup walks nested objects along path. It returns nil when any step
// is missing or not an object.
func lookup(body map[string]any, path ...string) any {
	var cur any = body
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// truthy reports whether v is a non-empty JSON value.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// renderValue turns a decoded JSON value into display text. Lists are
// joined with newlines, objects are indented JSON, anything else is its
// plain string form.
func renderValue(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = scalarString(item)
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		return encodeJSON(t, "  ")
	default:
		return scalarString(v)
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case map[string]any, []any:
		return encodeJSON(t, "")
	default:
		return fmt.Sprint(t)
	}
}

// encodeJSON renders v as JSON with <, > and & left as written. An empty
// indent gives the compact form.
func encodeJSON(v any, indent string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
