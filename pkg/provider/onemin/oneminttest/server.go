// Package oneminttest provides an in-memory fake of the 1min.ai REST API
// for tests and local development. It implements conversation create,
// list, get and delete plus the features endpoint, records every prompt it
// receives, and can be told to answer a route with a fixed status code.
package oneminttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rhuss/llm-1min/pkg/provider"
)

// Route names accepted by Fake.SetStatus.
const (
	RouteCreate   = "create"
	RouteFeatures = "features"
	RouteDelete   = "delete"
	RouteList     = "list"
	RouteGet      = "get"
)

// ReplyFunc builds the JSON body returned by the features endpoint.
type ReplyFunc func(req provider.FeatureRequest) any

// Fake is the in-memory API. The zero value is not usable; call New.
type Fake struct {
	mu            sync.Mutex
	apiKey        string
	conversations map[string]provider.Conversation
	order         []string
	features      []provider.FeatureRequest
	creates       int
	deletes       []string
	status        map[string]int
	reply         ReplyFunc
}

// New creates a fake that accepts requests carrying apiKey. An empty
// apiKey accepts any key.
func New(apiKey string) *Fake {
	return &Fake{
		apiKey:        apiKey,
		conversations: make(map[string]provider.Conversation),
		status:        make(map[string]int),
		reply:         DefaultReply,
	}
}

// NewServer starts an httptest server around a new fake and closes it
// when the test ends.
func NewServer(t testing.TB, apiKey string) (*Fake, *httptest.Server) {
	t.Helper()
	f := New(apiKey)
	srv := httptest.NewServer(f.Handler())
	t.Cleanup(srv.Close)
	return f, srv
}

// DefaultReply answers in the aiRecord shape the real API uses, echoing
// the prompt.
func DefaultReply(req provider.FeatureRequest) any {
	return map[string]any{
		"aiRecord": map[string]any{
			"uuid":   uuid.NewString(),
			"model":  req.Model,
			"type":   req.Type,
			"status": "SUCCESS",
			"aiRecordDetail": map[string]any{
				"promptObject": req.PromptObject,
				"resultObject": []string{"You said: " + req.PromptObject.Prompt},
			},
		},
	}
}

// SetStatus makes route answer with status and an error body until it is
// reset with a status of 0.
func (f *Fake) SetStatus(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.status, route)
		return
	}
	f.status[route] = status
}

// SetReply replaces the features endpoint body builder.
func (f *Fake) SetReply(fn ReplyFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = fn
}

// AddConversation registers a conversation as if it had been created
// through the API and returns its UUID.
func (f *Fake) AddConversation(title, convType, model string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.add(title, convType, model).UUID
}

// Features returns the prompt requests received so far.
func (f *Fake) Features() []provider.FeatureRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provider.FeatureRequest(nil), f.features...)
}

// Conversations returns the conversations that currently exist, oldest
// first.
func (f *Fake) Conversations() []provider.Conversation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]provider.Conversation, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.conversations[id])
	}
	return out
}

// Creates returns how many conversations were created through the API.
func (f *Fake) Creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

// Deletes returns the UUIDs passed to the delete endpoint, including ones
// that did not exist.
func (f *Fake) Deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

// Handler returns the HTTP handler serving the fake API.
func (f *Fake) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/conversations", f.guard(RouteCreate, f.handleCreate))
	mux.HandleFunc("GET /api/conversations", f.guard(RouteList, f.handleList))
	mux.HandleFunc("GET /api/conversations/{uuid}", f.guard(RouteGet, f.handleGet))
	mux.HandleFunc("DELETE /api/conversations/{uuid}", f.guard(RouteDelete, f.handleDelete))
	mux.HandleFunc("POST /api/features", f.guard(RouteFeatures, f.handleFeatures))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// guard checks the API key and any forced status before calling next.
func (f *Fake) guard(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		key, forced := f.apiKey, f.status[route]
		f.mu.Unlock()

		if key != "" && r.Header.Get("API-KEY") != key {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}
		if forced != 0 {
			writeJSON(w, forced, map[string]string{"message": http.StatusText(forced)})
			return
		}
		next(w, r)
	}
}

func (f *Fake) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req provider.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if req.Model == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "type and model are required"})
		return
	}

	f.mu.Lock()
	conv := f.add(req.Title, req.Type, req.Model)
	f.creates++
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"conversation": conv})
}

func (f *Fake) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"conversations": f.Conversations()})
}

func (f *Fake) handleGet(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	conv, ok := f.conversations[r.PathValue("uuid")]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Conversation not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation": conv})
}

func (f *Fake) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("uuid")

	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	_, ok := f.conversations[id]
	if ok {
		delete(f.conversations, id)
		for i, existing := range f.order {
			if existing == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Conversation not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *Fake) handleFeatures(w http.ResponseWriter, r *http.Request) {
	var req provider.FeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}

	f.mu.Lock()
	_, known := f.conversations[req.ConversationID]
	if known {
		f.features = append(f.features, req)
	}
	reply := f.reply
	f.mu.Unlock()

	if !known {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": fmt.Sprintf("conversation %q does not exist", req.ConversationID),
		})
		return
	}
	writeJSON(w, http.StatusOK, reply(req))
}

// add must be called with f.mu held.
func (f *Fake) add(title, convType, model string) provider.Conversation {
	conv := provider.Conversation{
		UUID:      uuid.NewString(),
		Title:     title,
		Type:      convType,
		Model:     model,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	f.conversations[conv.UUID] = conv
	f.order = append(f.order, conv.UUID)
	return conv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
