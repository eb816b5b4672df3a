// Package upstream describes the AI provider dialects the gateway can route
// to. The registry resolves a proxy target's platform to the dialect rules
// (auth header shape, chat endpoint path) its forwarder needs.
package upstream

import (
	"fmt"

	"aigate/internal/domain/proxy"
)

// Upstream captures the wire conventions of one provider platform.
type Upstream interface {
	// Platform is the identifier proxy targets carry.
	Platform() proxy.Platform
	// Name is a human-readable provider name for logs.
	Name() string
	// AuthHeader returns the header name and value that carry the upstream
	// API key on forwarded requests.
	AuthHeader(secret string) (name, value string)
	// ChatPath is the provider's chat-completion endpoint path.
	ChatPath() string
}

// UpstreamError represents an upstream resolution error
type UpstreamError struct {
	Code    string
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error [%s]: %s", e.Code, e.Message)
}

type openAI struct{}

func (openAI) Platform() proxy.Platform { return proxy.PlatformOpenAI }
func (openAI) Name() string             { return "OpenAI" }
func (openAI) AuthHeader(secret string) (string, string) {
	return "Authorization", "Bearer " + secret
}
func (openAI) ChatPath() string { return "/v1/chat/completions" }

type anthropic struct{}

func (anthropic) Platform() proxy.Platform { return proxy.PlatformAnthropic }
func (anthropic) Name() string             { return "Anthropic" }
func (anthropic) AuthHeader(secret string) (string, string) {
	return "x-api-key", secret
}
func (anthropic) ChatPath() string { return "/v1/messages" }

type gemini struct{}

func (gemini) Platform() proxy.Platform { return proxy.PlatformGemini }
func (gemini) Name() string             { return "Google Gemini" }
func (gemini) AuthHeader(secret string) (string, string) {
	return "x-goog-api-key", secret
}
func (gemini) ChatPath() string { return "/v1beta/models" }

// NewOpenAI returns the OpenAI dialect.
func NewOpenAI() Upstream { return openAI{} }

// NewAnthropic returns the Anthropic dialect.
func NewAnthropic() Upstream { return anthropic{} }

// NewGemini returns the Gemini dialect.
func NewGemini() Upstream { return gemini{} }
