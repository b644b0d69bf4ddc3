package provider

// FeatureRequest is the body of a prompt submission. Type carries the
// conversation type (CHAT_WITH_AI or CODE_GENERATOR); Model is the
// provider model identifier, not the tool-facing "1min/..." id.
type FeatureRequest struct {
	Type           string       `json:"type"`
	Model          string       `json:"model"`
	ConversationID string       `json:"conversationId"`
	PromptObject   PromptObject `json:"promptObject"`
}

// PromptObject holds the prompt text and its feature toggles. Toggles
// that are off are left nil so they are omitted from the JSON body; the
// provider distinguishes an absent field from an explicit false.
type PromptObject struct {
	Prompt    string `json:"prompt"`
	WebSearch *bool  `json:"webSearch,omitempty"`
	NumOfSite *int   `json:"numOfSite,omitempty"`
	MaxWord   *int   `json:"maxWord,omitempty"`
	IsMixed   *bool  `json:"isMixed,omitempty"`
}

// CreateConversationRequest is the body of a conversation creation call.
type CreateConversationRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Model string `json:"model"`
}

// Conversation describes a remote conversation as returned by the
// provider's list and create endpoints.
type Conversation struct {
	UUID      string `json:"uuid"`
	Title     string `json:"title,omitempty"`
	Type      string `json:"type,omitempty"`
	Model     string `json:"model,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}
