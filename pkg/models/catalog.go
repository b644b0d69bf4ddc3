// Package models holds the static catalog of 1min.ai models exposed by
// llm-1min. Each entry maps the identifier users pass on the command line
// ("1min/gpt-4o") to the identifier the provider API expects ("gpt-4o").
package models

import (
	"sort"
	"strings"
)

// Prefix namespaces tool model IDs so they do not collide with other
// providers registered in the host tool.
const Prefix = "1min/"

// Model describes one catalog entry.
type Model struct {
	// ID is the tool-facing identifier, always carrying Prefix.
	ID string `json:"id"`

	// APIModel is the identifier sent to the provider.
	APIModel string `json:"api_model"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// Description is a one-line summary shown by the models command.
	Description string `json:"description"`

	// Vendor is the upstream model family (OpenAI, Anthropic, ...).
	Vendor string `json:"vendor"`
}

// ShortID returns the ID without Prefix.
func (m Model) ShortID() string {
	return strings.TrimPrefix(m.ID, Prefix)
}

var catalog = []Model{
	// OpenAI
	{"1min/gpt-3.5-turbo", "gpt-3.5-turbo", "GPT-3.5 Turbo", "Fast and economical OpenAI model", "OpenAI"},
	{"1min/gpt-4-turbo", "gpt-4-turbo", "GPT-4 Turbo", "Enhanced GPT-4 with speed improvements", "OpenAI"},
	{"1min/gpt-4.1", "gpt-4.1", "GPT-4.1", "Latest GPT-4 series model", "OpenAI"},
	{"1min/gpt-4.1-mini", "gpt-4.1-mini", "GPT-4.1 Mini", "Compact GPT-4.1 variant", "OpenAI"},
	{"1min/gpt-4.1-nano", "gpt-4.1-nano", "GPT-4.1 Nano", "Ultra-compact GPT-4.1 variant", "OpenAI"},
	{"1min/gpt-4o-mini", "gpt-4o-mini", "GPT-4o Mini", "Fast and cost-effective OpenAI model", "OpenAI"},
	{"1min/gpt-4o", "gpt-4o", "GPT-4o", "Omni-modal GPT-4 model", "OpenAI"},
	{"1min/gpt-5", "gpt-5", "GPT-5", "Latest OpenAI flagship model", "OpenAI"},
	{"1min/gpt-5-mini", "gpt-5-mini", "GPT-5 Mini", "Compact GPT-5 variant", "OpenAI"},
	{"1min/gpt-5-nano", "gpt-5-nano", "GPT-5 Nano", "Ultra-compact GPT-5 variant", "OpenAI"},
	{"1min/gpt-5-chat-latest", "gpt-5-chat-latest", "GPT-5 Chat Latest", "Latest GPT-5 chat variant", "OpenAI"},
	{"1min/o1-mini", "o1-mini", "O1 Mini", "OpenAI reasoning model", "OpenAI"},
	{"1min/o3-mini", "o3-mini", "O3 Mini", "Reasoning-focused OpenAI model", "OpenAI"},
	{"1min/o4-mini", "o4-mini", "O4 Mini", "Latest reasoning-focused model", "OpenAI"},

	// Anthropic
	{"1min/claude-3-haiku", "claude-3-haiku-20240307", "Claude 3 Haiku", "Fast and compact Anthropic model", "Anthropic"},
	{"1min/claude-3-5-haiku", "claude-3-5-haiku-20241022", "Claude 3.5 Haiku", "Enhanced fast Anthropic model", "Anthropic"},
	{"1min/claude-3-7-sonnet", "claude-3-7-sonnet-20250219", "Claude 3.7 Sonnet", "Advanced Anthropic model", "Anthropic"},
	{"1min/claude-4-sonnet", "claude-sonnet-4-20250514", "Claude 4 Sonnet", "Latest Anthropic Sonnet model", "Anthropic"},
	{"1min/claude-4-opus", "claude-opus-4-20250514", "Claude 4 Opus", "Most powerful Anthropic model", "Anthropic"},

	// Google
	{"1min/gemini-1.5-pro", "gemini-1.5-pro", "Gemini 1.5 Pro", "Google's advanced model", "Google"},
	{"1min/gemini-2.0-flash", "gemini-2.0-flash", "Gemini 2.0 Flash", "Fast Gemini 2.0 variant", "Google"},
	{"1min/gemini-2.0-flash-lite", "gemini-2.0-flash-lite", "Gemini 2.0 Flash Lite", "Compact Gemini 2.0 Flash", "Google"},
	{"1min/gemini-2.5-flash", "gemini-2.5-flash", "Gemini 2.5 Flash", "Latest fast Gemini model", "Google"},
	{"1min/gemini-2.5-pro", "gemini-2.5-pro", "Gemini 2.5 Pro", "Latest Gemini Pro model", "Google"},

	// DeepSeek
	{"1min/deepseek-chat", "deepseek-chat", "DeepSeek Chat", "DeepSeek conversational model", "DeepSeek"},
	{"1min/deepseek-r1", "deepseek-reasoner", "DeepSeek R1", "DeepSeek reasoning model", "DeepSeek"},

	// xAI
	{"1min/grok-2", "grok-2", "Grok 2", "xAI's Grok model", "xAI"},
	{"1min/grok-3", "grok-3", "Grok 3", "Latest xAI Grok model", "xAI"},
	{"1min/grok-3-mini", "grok-3-mini", "Grok 3 Mini", "Compact Grok 3 variant", "xAI"},
	{"1min/grok-4", "grok-4-0709", "Grok 4", "Newest xAI Grok model", "xAI"},
	{"1min/grok-4-fast-non-reasoning", "grok-4-fast-non-reasoning", "Grok 4 Fast Non-Reasoning", "Fast Grok 4 without reasoning", "xAI"},
	{"1min/grok-4-fast-reasoning", "grok-4-fast-reasoning", "Grok 4 Fast Reasoning", "Fast Grok 4 with reasoning", "xAI"},
	{"1min/grok-code-fast-1", "grok-code-fast-1", "Grok Code Fast 1", "xAI's fast code generation model", "xAI"},

	// Mistral
	{"1min/open-mistral-nemo", "open-mistral-nemo", "Mistral Open Nemo", "Open Mistral model", "Mistral"},
	{"1min/mistral-small-latest", "mistral-small-latest", "Mistral Small", "Compact Mistral model", "Mistral"},
	{"1min/mistral-large-latest", "mistral-large-latest", "Mistral Large 2", "Most capable Mistral model", "Mistral"},
	{"1min/pixtral-12b", "pixtral-12b", "Mistral Pixtral 12B", "Mistral vision model", "Mistral"},

	// Cohere
	{"1min/command-r", "command-r-08-2024", "Command R", "Cohere's Command R model", "Cohere"},

	// Meta and open-weight models served through Replicate
	{"1min/llama-2-70b", "meta/llama-2-70b-chat", "LLaMA 2 70b", "Meta's LLaMA 2 70B model", "Meta"},
	{"1min/llama-3-70b", "meta/meta-llama-3-70b-instruct", "LLaMA 3 70b", "Meta's LLaMA 3 70B model", "Meta"},
	{"1min/llama-3.1-405b", "meta/meta-llama-3.1-405b-instruct", "LLaMA 3.1 405b", "Meta's largest LLaMA model", "Meta"},
	{"1min/llama-4-scout", "meta/llama-4-scout-instruct", "LLaMA 4 Scout", "LLaMA 4 Scout variant", "Meta"},
	{"1min/llama-4-maverick", "meta/llama-4-maverick-instruct", "LLaMA 4 Maverick", "LLaMA 4 Maverick variant", "Meta"},
	{"1min/gpt-oss-20b", "openai/gpt-oss-20b", "GPT OSS 20b", "Open-source GPT 20B model", "Meta"},
	{"1min/gpt-oss-120b", "openai/gpt-oss-120b", "GPT OSS 120b", "Open-source GPT 120B model", "Meta"},

	// Perplexity
	{"1min/sonar", "sonar", "Sonar", "Perplexity web-aware model", "Perplexity"},
	{"1min/sonar-reasoning", "sonar-reasoning", "Sonar Reasoning", "Perplexity with reasoning capabilities", "Perplexity"},
}

// All returns a copy of the catalog in display order.
func All() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup resolves a model by tool ID ("1min/gpt-4o"), short ID ("gpt-4o")
// or provider model identifier ("claude-sonnet-4-20250514").
func Lookup(id string) (Model, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Model{}, false
	}
	full := id
	if !strings.HasPrefix(full, Prefix) {
		full = Prefix + id
	}
	for _, m := range catalog {
		if m.ID == full {
			return m, true
		}
	}
	for _, m := range catalog {
		if m.APIModel == id {
			return m, true
		}
	}
	return Model{}, false
}

// Vendors returns the distinct vendor names, sorted.
func Vendors() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range catalog {
		if !seen[m.Vendor] {
			seen[m.Vendor] = true
			out = append(out, m.Vendor)
		}
	}
	sort.Strings(out)
	return out
}

// ByVendor returns the catalog entries of one vendor in display order.
// Matching is case-insensitive.
func ByVendor(vendor string) []Model {
	var out []Model
	for _, m := range catalog {
		if strings.EqualFold(m.Vendor, vendor) {
			out = append(out, m)
		}
	}
	return out
}
