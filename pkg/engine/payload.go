package engine

import (
	"github.com/rhuss/llm-1min/pkg/options"
	"github.com/rhuss/llm-1min/pkg/provider"
)

// EffectiveOptions merges the three option layers (defaults, per-model,
// explicit overrides) and validates the result.
func EffectiveOptions(defaults, modelOptions map[string]any, explicit options.Overrides) (options.Effective, error) {
	return options.Resolve(options.Merge(defaults, modelOptions, explicit.Map()))
}

// BuildPayload merges the option layers and shapes the features request
// for one prompt. model is the provider model identifier.
func BuildPayload(defaults, modelOptions map[string]any, explicit options.Overrides, prompt, model, conversationUUID string) (*provider.FeatureRequest, error) {
	eff, err := EffectiveOptions(defaults, modelOptions, explicit)
	if err != nil {
		return nil, err
	}
	return featureRequest(eff, prompt, model, conversationUUID), nil
}

// featureRequest shapes the payload from resolved options. A disabled web
// search drops its site count and word cap along with the toggle; a
// disabled mixing toggle is left out too.
func featureRequest(eff options.Effective, prompt, model, conversationUUID string) *provider.FeatureRequest {
	po := provider.PromptObject{Prompt: prompt}

	if eff.WebSearch {
		on := true
		sites, words := eff.NumOfSite, eff.MaxWord
		po.WebSearch = &on
		po.NumOfSite = &sites
		po.MaxWord = &words
	}
	if eff.IsMixed {
		on := true
		po.IsMixed = &on
	}

	return &provider.FeatureRequest{
		Type:           eff.ConversationType,
		Model:          model,
		ConversationID: conversationUUID,
		PromptObject:   po,
	}
}
