package onemin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/provider"
	"github.com/rhuss/llm-1min/pkg/provider/onemin/oneminttest"
)

const testKey = "sk-test-0123456789"

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := DefaultConfig(testKey)
	cfg.BaseURL = baseURL + "/"
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for missing API key")
	}

	c, err := New(Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.cfg.BaseURL, DefaultBaseURL)
	}
	if c.cfg.CreateTimeout != 30*time.Second || c.cfg.PromptTimeout != 60*time.Second {
		t.Errorf("timeouts = %v/%v, want 30s/60s", c.cfg.CreateTimeout, c.cfg.PromptTimeout)
	}
	if c.Name() != "1min" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestCreateConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/conversations" {
			t.Errorf("expected path /api/conversations, got %s", r.URL.Path)
		}
		if r.Header.Get("API-KEY") != testKey {
			t.Errorf("API-KEY header = %q", r.Header.Get("API-KEY"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var req provider.CreateConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Title != "LLM Chat - GPT-4o" || req.Type != "CHAT_WITH_AI" || req.Model != "gpt-4o" {
			t.Errorf("unexpected request %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"conversation":{"uuid":"conv-uuid-456","title":"Test Conversation","type":"CHAT_WITH_AI","model":"gpt-4o"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	id, err := c.CreateConversation(context.Background(), "LLM Chat - GPT-4o", "CHAT_WITH_AI", "gpt-4o")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if id != "conv-uuid-456" {
		t.Errorf("uuid = %q, want conv-uuid-456", id)
	}
}

func TestCreateConversation_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		alsoType api.ErrorType
	}{
		{"unauthorized", 401, `{"message":"Unauthorized"}`, api.ErrorTypeAuthentication},
		{"server error", 500, ``, api.ErrorTypeRequestFailed},
		{"missing uuid", 200, `{"conversation":{}}`, api.ErrorTypeResponseParse},
		{"not json", 200, `<html>`, api.ErrorTypeResponseParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.CreateConversation(context.Background(), "t", "CHAT_WITH_AI", "gpt-4o")
			if !api.IsType(err, api.ErrorTypeConversationCreation) {
				t.Fatalf("expected conversation_creation error, got %v", err)
			}
			if !api.IsType(err, tt.alsoType) {
				t.Errorf("expected cause of type %q, got %v", tt.alsoType, err)
			}
		})
	}
}

func TestCreateConversation_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.CreateConversation(context.Background(), "t", "CHAT_WITH_AI", "gpt-4o")
	if !api.IsType(err, api.ErrorTypeConversationCreation) {
		t.Fatalf("expected conversation_creation error, got %v", err)
	}
	if !api.IsType(err, api.ErrorTypeRequestFailed) {
		t.Errorf("expected request_failed cause, got %v", err)
	}
}

func TestSubmitPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/features" {
			t.Errorf("expected path /api/features, got %s", r.URL.Path)
		}

		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode: %v", err)
			return
		}
		if raw["conversationId"] != "conv-1" || raw["type"] != "CODE_GENERATOR" {
			t.Errorf("unexpected payload %v", raw)
		}
		po := raw["promptObject"].(map[string]any)
		if po["webSearch"] != true || po["numOfSite"] != float64(5) || po["maxWord"] != float64(500) {
			t.Errorf("unexpected promptObject %v", po)
		}
		if _, ok := po["isMixed"]; ok {
			t.Error("isMixed should be omitted when nil")
		}

		w.Write([]byte(`{"aiRecord":{"status":"SUCCESS","aiRecordDetail":{"resultObject":["Hello","World"]}}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	text, err := c.SubmitPrompt(context.Background(), &provider.FeatureRequest{
		Type:           "CODE_GENERATOR",
		Model:          "gpt-4o",
		ConversationID: "conv-1",
		PromptObject: provider.PromptObject{
			Prompt:    "hi",
			WebSearch: boolPtr(true),
			NumOfSite: intPtr(5),
			MaxWord:   intPtr(500),
		},
	})
	if err != nil {
		t.Fatalf("SubmitPrompt: %v", err)
	}
	if text != "Hello\nWorld" {
		t.Errorf("text = %q, want %q", text, "Hello\nWorld")
	}
}

func TestSubmitPrompt_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType api.ErrorType
	}{
		{"401", 401, ``, api.ErrorTypeAuthentication},
		{"429", 429, ``, api.ErrorTypeRateLimit},
		{"500", 500, `{"message":"boom"}`, api.ErrorTypeRequestFailed},
		{"malformed body", 200, `{"aiRecord":`, api.ErrorTypeResponseParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.SubmitPrompt(context.Background(), &provider.FeatureRequest{Model: "gpt-4o"})
			if !api.IsType(err, tt.wantType) {
				t.Errorf("expected %q error, got %v", tt.wantType, err)
			}
		})
	}
}

func TestSubmitPrompt_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := DefaultConfig(testKey)
	cfg.BaseURL = srv.URL
	cfg.PromptTimeout = 50 * time.Millisecond
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.SubmitPrompt(context.Background(), &provider.FeatureRequest{Model: "gpt-4o"})
	if !api.IsType(err, api.ErrorTypeRequestFailed) {
		t.Errorf("timeout should be a request_failed error, got %v", err)
	}
}

func TestDeleteConversation(t *testing.T) {
	tests := []struct {
		status  int
		want    bool
		wantErr bool
	}{
		{200, true, false},
		{204, true, false},
		{404, true, false},
		{401, false, true},
		{500, false, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/api/conversations/conv-1" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			ok, err := c.DeleteConversation(context.Background(), "conv-1")
			if ok != tt.want {
				t.Errorf("ok = %v, want %v", ok, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAgainstFakeServer(t *testing.T) {
	fake, srv := oneminttest.NewServer(t, testKey)
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	id, err := c.CreateConversation(ctx, "LLM Chat - Sonar", "CHAT_WITH_AI", "sonar")
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}

	text, err := c.SubmitPrompt(ctx, &provider.FeatureRequest{
		Type: "CHAT_WITH_AI", Model: "sonar", ConversationID: id,
		PromptObject: provider.PromptObject{Prompt: "ping"},
	})
	if err != nil {
		t.Fatalf("SubmitPrompt: %v", err)
	}
	if text != "You said: ping" {
		t.Errorf("text = %q", text)
	}
	if got := fake.Features(); len(got) != 1 || got[0].PromptObject.Prompt != "ping" {
		t.Errorf("recorded features = %+v", got)
	}

	convs, err := c.ListConversations(ctx)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 1 || convs[0].UUID != id || convs[0].Model != "sonar" {
		t.Errorf("conversations = %+v", convs)
	}

	doc, err := c.GetConversation(ctx, id)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	var got struct {
		Conversation provider.Conversation `json:"conversation"`
	}
	if err := json.Unmarshal(doc, &got); err != nil || got.Conversation.Title != "LLM Chat - Sonar" {
		t.Errorf("GetConversation = %s, %v", doc, err)
	}

	for i := 0; i < 2; i++ {
		ok, err := c.DeleteConversation(ctx, id)
		if !ok || err != nil {
			t.Errorf("delete #%d = %v, %v; want true, nil", i+1, ok, err)
		}
	}

	_, err = c.GetConversation(ctx, id)
	var apiErr *api.Error
	if !api.IsType(err, api.ErrorTypeRequestFailed) {
		t.Fatalf("expected request_failed for a deleted conversation, got %v", err)
	}
	if errors.As(err, &apiErr) && apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestWrongKeyAgainstFake(t *testing.T) {
	_, srv := oneminttest.NewServer(t, "the-real-key")
	c := newTestClient(t, srv.URL)

	_, err := c.ListConversations(context.Background())
	if !api.IsType(err, api.ErrorTypeAuthentication) {
		t.Errorf("expected authentication error, got %v", err)
	}
}
