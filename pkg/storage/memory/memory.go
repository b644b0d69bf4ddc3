// Package memory provides the in-memory conversation registry. It maps a
// conversation key (host conversation id + model id) to the UUID of the
// remote conversation the provider issued for it. Entries live for the
// lifetime of the process and are never written to disk.
package memory

import (
	"container/list"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/debug"
	"github.com/rhuss/llm-1min/pkg/observability"
	"github.com/rhuss/llm-1min/pkg/storage"
)

// Key identifies one remote conversation. ConversationID is empty for
// stateless calls, in which case all calls for Model share one entry.
type Key struct {
	ConversationID string
	Model          string
}

// NewKey builds a key from an optional host conversation id and a model id.
func NewKey(conversationID, model string) Key {
	return Key{ConversationID: conversationID, Model: model}
}

// String renders the key as "<conversationID>_<model>", or just the model
// when there is no conversation id.
func (k Key) String() string {
	if k.ConversationID == "" {
		return k.Model
	}
	return k.ConversationID + "_" + k.Model
}

// CreateFunc creates a remote conversation and returns its UUID.
type CreateFunc func(ctx context.Context) (string, error)

// DeleteFunc deletes a remote conversation. It returns true when the
// conversation is gone afterwards (deleted or already absent).
type DeleteFunc func(ctx context.Context, uuid string) (bool, error)

// Entry is one registered conversation.
type Entry struct {
	Key  Key
	UUID string
}

type entry struct {
	uuid string
	elem *list.Element // position in registration order
}

// Registry is a mutex-guarded map of conversation keys to remote UUIDs
// that remembers registration order.
type Registry struct {
	mu      sync.Mutex
	entries map[Key]*entry
	order   *list.List // front = oldest registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		entries: make(map[Key]*entry),
		order:   list.New(),
	}
}

// GetOrCreate returns the UUID registered for key. If there is none,
// create is called and its result is stored. The cached UUID is returned
// without checking that the remote conversation still exists. A failing
// create leaves the registry unchanged and returns a conversation_creation
// error.
//
// The registry lock is held while create runs, so concurrent callers for
// the same key create at most one conversation.
func (r *Registry) GetOrCreate(ctx context.Context, key Key, create CreateFunc) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		return e.uuid, nil
	}

	id, err := create(ctx)
	if err != nil {
		if api.IsType(err, api.ErrorTypeConversationCreation) {
			return "", err
		}
		return "", api.NewConversationCreationError(err)
	}
	if strings.TrimSpace(id) == "" {
		return "", api.NewConversationCreationError(errors.New("provider returned an empty conversation id"))
	}
	if _, perr := uuid.Parse(id); perr != nil {
		debug.Log("storage", "conversation id is not a UUID", "key", key.String(), "id", id)
	}

	r.entries[key] = &entry{uuid: id, elem: r.order.PushBack(key)}
	observability.ConversationsCreatedTotal.Inc()
	observability.ActiveConversations.Inc()
	debug.Log("storage", "conversation registered", "key", key.String(), "uuid", id)
	return id, nil
}

// Get returns the UUID registered for key.
func (r *Registry) Get(key Key) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return e.uuid, nil
}

// Remove drops the local mapping for key. The remote conversation is not
// touched. It reports whether an entry was removed.
func (r *Registry) Remove(key Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remove(key)
}

// remove must be called with r.mu held.
func (r *Registry) remove(key Key) bool {
	e, ok := r.entries[key]
	if !ok {
		return false
	}
	r.order.Remove(e.elem)
	delete(r.entries, key)
	observability.ActiveConversations.Dec()
	return true
}

// FindByModel returns the earliest registered key whose model equals
// model exactly.
func (r *Registry) FindByModel(model string) (Key, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for el := r.order.Front(); el != nil; el = el.Next() {
		k := el.Value.(Key)
		if k.Model == model {
			return k, true
		}
	}
	return Key{}, false
}

// Clear deletes every entry matching match (all entries when match is nil)
// through del and drops the local mappings whose remote delete succeeded.
// Entries whose delete failed stay registered so a later Clear can retry
// them. It returns the number of entries removed.
//
// The lock is released while del runs; an entry re-registered under the
// same key in the meantime is left alone.
func (r *Registry) Clear(ctx context.Context, del DeleteFunc, match func(Key) bool) int {
	targets := r.snapshot(match)

	cleared := 0
	for _, t := range targets {
		ok, err := del(ctx, t.UUID)
		if err != nil || !ok {
			debug.Log("storage", "conversation kept, remote delete failed", "key", t.Key.String(), "uuid", t.UUID, "error", err)
			observability.ConversationsClearedTotal.WithLabelValues("retained").Inc()
			continue
		}

		r.mu.Lock()
		if e, exists := r.entries[t.Key]; exists && e.uuid == t.UUID {
			r.remove(t.Key)
			cleared++
			observability.ConversationsClearedTotal.WithLabelValues("cleared").Inc()
		}
		r.mu.Unlock()
	}
	return cleared
}

// List returns a copy of the registry keyed by the rendered key.
func (r *Registry) List() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]string, len(r.entries))
	for k, e := range r.entries {
		out[k.String()] = e.uuid
	}
	return out
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	return r.snapshot(nil)
}

// Len returns the number of registered conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) snapshot(match func(Key) bool) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, 0, len(r.entries))
	for el := r.order.Front(); el != nil; el = el.Next() {
		k := el.Value.(Key)
		if match != nil && !match(k) {
			continue
		}
		out = append(out, Entry{Key: k, UUID: r.entries[k].uuid})
	}
	return out
}

// ByModel returns a Clear predicate selecting entries for model.
func ByModel(model string) func(Key) bool {
	return func(k Key) bool { return k.Model == model }
}
