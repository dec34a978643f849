package genai

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// AuthType identifies a backend family. Adapter packages register a
// constructor for each type they serve.
type AuthType string

const (
	// AuthOpenAICompatible targets any /v1/chat/completions backend
	// (OpenAI, LiteLLM proxies, local inference servers).
	AuthOpenAICompatible AuthType = "openai-compatible"
)

// AuthConfig is the descriptor from which a generator is selected and
// constructed. Unused fields are ignored by adapters that do not need them.
type AuthConfig struct {
	Type    AuthType
	APIKey  string
	BaseURL string
	Model   string

	// EnableCacheControl tags cacheable content when the backend honors
	// prompt-cache markers.
	EnableCacheControl bool

	// Headers are added to every backend request.
	Headers map[string]string
}

// ConfigError is a fatal construction-time configuration problem, such as
// missing credentials. It is never retried.
type ConfigError struct {
	Backend AuthType
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("genai: %s configuration invalid: %s", e.Backend, e.Reason)
}

// Constructor builds a generator from a descriptor. Construction may perform
// network credential exchange, hence the context.
type Constructor func(ctx context.Context, cfg AuthConfig) (ContentGenerator, error)

var (
	registryMu sync.RWMutex
	registry   = map[AuthType]Constructor{}
)

// Register installs the constructor for a backend family. Adapter packages
// call this from init; a duplicate registration panics.
func Register(t AuthType, c Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[t]; dup {
		panic(fmt.Sprintf("genai: Register called twice for %q", t))
	}
	registry[t] = c
}

// NewContentGenerator selects and constructs the adapter for cfg.Type.
// Selection is a pure function of the descriptor; unknown backends and
// missing credentials fail loudly, never degrade silently.
func NewContentGenerator(ctx context.Context, cfg AuthConfig) (ContentGenerator, error) {
	registryMu.RLock()
	ctor, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &ConfigError{Backend: cfg.Type, Reason: fmt.Sprintf("unknown backend type (registered: %v)", registeredTypes())}
	}
	return ctor(ctx, cfg)
}

func registeredTypes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, string(t))
	}
	sort.Strings(out)
	return out
}
