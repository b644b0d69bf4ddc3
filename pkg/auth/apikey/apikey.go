// Package apikey resolves the 1min.ai API key from the command line, the
// environment or settings file, and the key store shared with the llm tool.
package apikey

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rhuss/llm-1min/pkg/api"
	"github.com/rhuss/llm-1min/pkg/debug"
)

// DefaultKeyName is the keys.json entry holding the 1min.ai key.
const DefaultKeyName = "1min"

// Source names where a resolved key came from.
type Source string

const (
	SourceFlag     Source = "flag"
	SourceConfig   Source = "config"
	SourceKeyStore Source = "keys.json"
)

// Resolver looks up the API key in order: explicit flag, configured value
// (settings file or ONEMIN_API_KEY), then the llm key store.
type Resolver struct {
	// Flag is the value passed with --api-key.
	Flag string
	// Configured is the value from the settings file or environment.
	Configured string
	// KeysFile overrides the key store location.
	KeysFile string
	// KeyName is the key store entry; empty means DefaultKeyName.
	KeyName string
}

// Resolve returns the first non-empty key and where it was found.
func (r Resolver) Resolve() (string, Source, error) {
	if key := strings.TrimSpace(r.Flag); key != "" {
		return r.found(key, SourceFlag)
	}
	if key := strings.TrimSpace(r.Configured); key != "" {
		return r.found(key, SourceConfig)
	}

	path := r.KeysFile
	if path == "" {
		path = KeysPath()
	}
	if path != "" {
		key, err := lookupKeyStore(path, r.keyName())
		if err != nil {
			return "", "", err
		}
		if key != "" {
			return r.found(key, SourceKeyStore)
		}
	}

	return "", "", &api.Error{
		Type:    api.ErrorTypeAuthentication,
		Message: "no API key found",
	}
}

func (r Resolver) found(key string, src Source) (string, Source, error) {
	debug.Log("config", "api key resolved", "source", string(src), "key", debug.Redact(key))
	return key, src, nil
}

func (r Resolver) keyName() string {
	if r.KeyName == "" {
		return DefaultKeyName
	}
	return r.KeyName
}

// KeysPath returns the llm tool's keys.json location: $LLM_USER_PATH/keys.json
// when set, otherwise <user config dir>/io.datasette.llm/keys.json. Returns
// empty string when no config directory can be determined.
func KeysPath() string {
	if dir := os.Getenv("LLM_USER_PATH"); dir != "" {
		return filepath.Join(dir, "keys.json")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "io.datasette.llm", "keys.json")
}

// lookupKeyStore reads one entry from a keys.json file. A missing file or
// entry yields an empty key; an unreadable or malformed file is an error.
func lookupKeyStore(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		debug.Log("config", "key store not found", "path", path)
		return "", nil
	}
	if err != nil {
		return "", api.NewConfigIOError(fmt.Sprintf("reading key store %s", path), err)
	}

	var keys map[string]any
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", api.NewConfigIOError(fmt.Sprintf("parsing key store %s", path), err)
	}

	// Non-string entries (such as the "// Note" key llm writes) are skipped.
	key, _ := keys[name].(string)
	return strings.TrimSpace(key), nil
}
