// Package storage holds what the two llm-1min state holders share: sentinel
// errors. The options document lives in storage/file (a JSON file rewritten
// on every change), the conversation registry in storage/memory (process
// lifetime only).
package storage
