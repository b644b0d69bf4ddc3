package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/debug"
	"github.com/rhuss/llm-1min/pkg/models"
	"github.com/rhuss/llm-1min/pkg/options"
	"github.com/rhuss/llm-1min/pkg/provider"
	"github.com/rhuss/llm-1min/pkg/storage"
	"github.com/rhuss/llm-1min/pkg/storage/memory"
)

// OptionSource supplies the persisted option layers. *file.Store
// implements it.
type OptionSource interface {
	Defaults() map[string]any
	ModelOptions(modelID string) map[string]any
}

// Request is one prompt call.
type Request struct {
	// Model is a catalog model id ("1min/gpt-4o", "gpt-4o").
	Model string

	// ConversationID is the host conversation identity. Empty means the
	// call shares the per-model conversation with all other stateless
	// calls.
	ConversationID string

	Prompt string

	// Overrides holds the options set explicitly for this call.
	Overrides options.Overrides
}

// Result is the outcome of a prompt call.
type Result struct {
	Text             string
	Model            models.Model
	ConversationUUID string
	Options          options.Effective
	Duration         time.Duration
}

// Engine runs prompts: it resolves options, supplies the remote
// conversation from the registry and submits through the provider.
type Engine struct {
	provider provider.Provider
	store    OptionSource
	registry *memory.Registry
	cfg      Config
}

// New creates a new Engine. The provider and option source must not be
// nil. A nil registry gets a fresh one.
func New(p provider.Provider, store OptionSource, registry *memory.Registry, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, errors.New("engine: provider must not be nil")
	}
	if store == nil {
		return nil, errors.New("engine: option source must not be nil")
	}
	if registry == nil {
		registry = memory.New()
	}
	return &Engine{
		provider: p,
		store:    store,
		registry: registry,
		cfg:      cfg,
	}, nil
}

// Registry returns the conversation registry the engine uses.
func (e *Engine) Registry() *memory.Registry {
	return e.registry
}

// Prompt runs one prompt. Options are validated before any remote call is
// made, so an invalid stored or explicit value never creates a
// conversation.
func (e *Engine) Prompt(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	modelID := req.Model
	if modelID == "" {
		modelID = e.cfg.DefaultModel
	}
	if modelID == "" {
		return nil, api.NewValidationError("model", "model is required")
	}
	m, ok := models.Lookup(modelID)
	if !ok {
		return nil, api.NewValidationError("model", fmt.Sprintf("unknown model %q", modelID))
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, api.NewValidationError("prompt", "prompt must not be empty")
	}

	// Stored options are keyed by the provider model id.
	defaults := e.store.Defaults()
	modelOpts := e.store.ModelOptions(m.APIModel)

	eff, err := EffectiveOptions(defaults, modelOpts, req.Overrides)
	if err != nil {
		return nil, err
	}

	key := memory.NewKey(req.ConversationID, m.ID)
	convUUID, err := e.registry.GetOrCreate(ctx, key, func(ctx context.Context) (string, error) {
		return e.provider.CreateConversation(ctx, e.cfg.titlePrefix()+m.Name, eff.ConversationType, m.APIModel)
	})
	if err != nil {
		return nil, err
	}

	payload, err := BuildPayload(defaults, modelOpts, req.Overrides, req.Prompt, m.APIModel, convUUID)
	if err != nil {
		return nil, err
	}

	debug.Log("engine", "submitting prompt",
		"model", m.ID, "key", key.String(), "conversation", convUUID,
		"type", eff.ConversationType, "web_search", eff.WebSearch, "is_mixed", eff.IsMixed)

	text, err := e.provider.SubmitPrompt(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:             text,
		Model:            m,
		ConversationUUID: convUUID,
		Options:          eff,
		Duration:         time.Since(start),
	}, nil
}

// ClearModel deletes the conversations registered for model, locally and
// remotely, and returns how many were cleared. Conversations whose remote
// delete fails stay registered.
func (e *Engine) ClearModel(ctx context.Context, model string) int {
	id := model
	if m, ok := models.Lookup(model); ok {
		id = m.ID
	}
	n := e.registry.Clear(ctx, e.provider.DeleteConversation, memory.ByModel(id))
	debug.Log("engine", "cleared conversations", "model", id, "count", n, "remaining", e.registry.Len())
	return n
}

// ClearConversation deletes the conversation registered for one host
// conversation and model, locally and remotely. It reports whether a
// conversation was cleared; one whose remote delete fails stays
// registered.
func (e *Engine) ClearConversation(ctx context.Context, conversationID, model string) (bool, error) {
	id := model
	if m, ok := models.Lookup(model); ok {
		id = m.ID
	}
	key := memory.NewKey(conversationID, id)

	convUUID, err := e.registry.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ok, err := e.provider.DeleteConversation(ctx, convUUID)
	if err != nil {
		return false, err
	}
	if !ok {
		debug.Log("engine", "conversation kept, remote delete failed", "key", key.String(), "uuid", convUUID)
		return false, nil
	}
	e.registry.Remove(key)
	debug.Log("engine", "cleared conversation", "key", key.String(), "uuid", convUUID)
	return true, nil
}

// ConversationFor returns the earliest conversation registered for model.
func (e *Engine) ConversationFor(model string) (memory.Entry, bool) {
	id := model
	if m, ok := models.Lookup(model); ok {
		id = m.ID
	}
	key, ok := e.registry.FindByModel(id)
	if !ok {
		return memory.Entry{}, false
	}
	convUUID, err := e.registry.Get(key)
	if err != nil {
		return memory.Entry{}, false
	}
	return memory.Entry{Key: key, UUID: convUUID}, true
}

// ClearAll deletes every registered conversation and returns how many
// were cleared.
func (e *Engine) ClearAll(ctx context.Context) int {
	n := e.registry.Clear(ctx, e.provider.DeleteConversation, nil)
	debug.Log("engine", "cleared conversations", "model", "*", "count", n, "remaining", e.registry.Len())
	return n
}

// Conversations returns the registered conversations in creation order.
func (e *Engine) Conversations() []memory.Entry {
	return e.registry.Entries()
}
