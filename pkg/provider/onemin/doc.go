// Package onemin implements the provider interface for the 1min.ai REST
// API. It handles conversation creation, prompt submission through the
// features endpoint, conversation listing and deletion, response text
// extraction, and mapping of HTTP failures onto the api error taxonomy.
//
// Each call is a single attempt with its own timeout: 30s for creation,
// 60s for prompts, 30s for everything else.
package onemin
