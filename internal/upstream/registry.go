package upstream

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"aigate/internal/domain/proxy"
)

// Registry manages the supported upstream provider dialects
type Registry struct {
	upstreams map[proxy.Platform]Upstream
	mu        sync.RWMutex
}

// NewRegistry creates a new upstream registry
func NewRegistry() *Registry {
	return &Registry{upstreams: make(map[proxy.Platform]Upstream)}
}

// Register adds an upstream dialect to the registry
func (r *Registry) Register(u Upstream) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upstreams[u.Platform()] = u
	log.Info().
		Str("platform", string(u.Platform())).
		Str("name", u.Name()).
		Msg("registered upstream provider")
}

// Get returns the dialect for a platform
func (r *Registry) Get(platform proxy.Platform) (Upstream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.upstreams[platform]
	if !ok {
		return nil, &UpstreamError{
			Code:    "platform_not_registered",
			Message: fmt.Sprintf("platform %s not registered", platform),
		}
	}
	return u, nil
}

// Platforms returns all registered platforms
func (r *Registry) Platforms() []proxy.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]proxy.Platform, 0, len(r.upstreams))
	for p := range r.upstreams {
		out = append(out, p)
	}
	return out
}

// NewDefaultRegistry returns a registry with every built-in dialect
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewOpenAI())
	r.Register(NewAnthropic())
	r.Register(NewGemini())
	return r
}
