package proxies

import (
	"context"
	"fmt"
	"strings"

	"aigate/internal/crypto"
	"aigate/internal/domain/proxy"
	"aigate/internal/listing"
	"aigate/internal/store/repositories"
)

// Service manages upstream provider targets. Upstream API keys are sealed
// before they reach the repository and never leave this package in plaintext
// except through OpenSecret.
type Service struct {
	proxyRepo repositories.ProxyRepository
	aesKey    []byte
}

// NewService creates a proxies service.
func NewService(proxyRepo repositories.ProxyRepository, aesKey []byte) *Service {
	return &Service{proxyRepo: proxyRepo, aesKey: aesKey}
}

// CreateRequest is the proxy creation payload.
type CreateRequest struct {
	Name     string         `json:"name"`
	Platform proxy.Platform `json:"platform"`
	BaseURL  string         `json:"baseUrl"`
	Secret   string         `json:"secret"`
	Weight   int            `json:"weight,omitempty"`
}

// Create validates, seals the upstream key, and persists a new proxy target.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*proxy.Proxy, error) {
	p, err := proxy.New(req.Name, req.Platform, req.BaseURL, req.Weight)
	if err != nil {
		return nil, &ValidationError{Field: "proxy", Message: err.Error()}
	}
	if strings.TrimSpace(req.Secret) == "" {
		return nil, &ValidationError{Field: "secret", Message: "upstream API key is required"}
	}
	p.SecretEnc, err = crypto.EncryptString(s.aesKey, strings.TrimSpace(req.Secret))
	if err != nil {
		return nil, &ServiceError{Op: "seal_secret", Err: err}
	}
	if err := s.proxyRepo.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_proxy", Err: err}
	}
	return p, nil
}

// UpdateRequest is the proxy update payload. Pointer fields are applied only
// when present. Secret, when present, replaces the sealed upstream key.
type UpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	BaseURL *string `json:"baseUrl,omitempty"`
	Secret  *string `json:"secret,omitempty"`
	Weight  *int    `json:"weight,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// Update applies a partial update to an existing proxy target.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*proxy.Proxy, error) {
	p, err := s.proxyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "find_proxy", Err: err}
	}

	name := p.Name
	if req.Name != nil {
		name = *req.Name
	}
	baseURL := p.BaseURL
	if req.BaseURL != nil {
		baseURL = *req.BaseURL
	}
	weight := p.Weight
	if req.Weight != nil {
		weight = *req.Weight
	}
	fresh, err := proxy.New(name, p.Platform, baseURL, weight)
	if err != nil {
		return nil, &ValidationError{Field: "proxy", Message: err.Error()}
	}
	p.Name, p.BaseURL, p.Weight = fresh.Name, fresh.BaseURL, fresh.Weight

	if req.Enabled != nil {
		p.Enabled = *req.Enabled
	}
	if req.Secret != nil {
		if strings.TrimSpace(*req.Secret) == "" {
			return nil, &ValidationError{Field: "secret", Message: "upstream API key cannot be empty"}
		}
		p.SecretEnc, err = crypto.EncryptString(s.aesKey, strings.TrimSpace(*req.Secret))
		if err != nil {
			return nil, &ServiceError{Op: "seal_secret", Err: err}
		}
	}

	if err := s.proxyRepo.Save(ctx, p); err != nil {
		return nil, &ServiceError{Op: "save_proxy", Err: err}
	}
	return p, nil
}

// Get returns one proxy target.
func (s *Service) Get(ctx context.Context, id int64) (*proxy.Proxy, error) {
	return s.proxyRepo.FindByID(ctx, id)
}

// List returns one page of proxy targets and the total matching count.
func (s *Service) List(ctx context.Context, q listing.Query) ([]*proxy.Proxy, int, error) {
	return s.proxyRepo.List(ctx, q)
}

// Delete removes a proxy target.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.proxyRepo.Delete(ctx, id); err != nil {
		return &ServiceError{Op: "delete_proxy", Err: err}
	}
	return nil
}

// OpenSecret unseals the stored upstream key for a proxy. Only the request
// forwarding path should call this.
func (s *Service) OpenSecret(p *proxy.Proxy) (string, error) {
	plain, err := crypto.DecryptString(s.aesKey, p.SecretEnc)
	if err != nil {
		return "", &ServiceError{Op: "open_secret", Err: err}
	}
	return plain, nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

// ServiceError represents a service operation error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("proxies service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
