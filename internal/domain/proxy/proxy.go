package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Proxy is an upstream AI provider target the gateway routes to.
type Proxy struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Platform   Platform  `json:"platform"`
	BaseURL    string    `json:"baseUrl"`
	SecretEnc  string    `json:"-"` // sealed upstream API key
	Weight     int       `json:"weight"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Platform identifies the upstream API dialect.
type Platform string

const (
	PlatformOpenAI    Platform = "openai"
	PlatformAnthropic Platform = "anthropic"
	PlatformGemini    Platform = "gemini"
)

// ValidPlatform reports whether p is a supported upstream platform.
func ValidPlatform(p Platform) bool {
	switch p {
	case PlatformOpenAI, PlatformAnthropic, PlatformGemini:
		return true
	}
	return false
}

// New creates a proxy target with validation.
func New(name string, platform Platform, baseURL string, weight int) (*Proxy, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("proxy name is required")
	}
	if !ValidPlatform(platform) {
		return nil, fmt.Errorf("unsupported platform: %s", platform)
	}
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL: %q", baseURL)
	}
	if weight <= 0 {
		weight = 1
	}
	return &Proxy{
		Name:     name,
		Platform: platform,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Weight:   weight,
		Enabled:  true,
	}, nil
}
