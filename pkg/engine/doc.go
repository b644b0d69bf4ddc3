// Package engine implements the prompt pipeline of llm-1min. For each call
// it looks up the model in the catalog, layers the stored defaults, the
// stored per-model options and the caller's explicit overrides, obtains
// the remote conversation from the registry (creating it on first use),
// shapes the features payload and submits it through the provider.
//
// The payload builder lives in payload.go and is usable on its own.
package engine
