package accounts

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"aigate/internal/domain/account"
	"aigate/internal/listing"
	"aigate/internal/store/repositories"
)

// Service handles API consumer account management.
type Service struct {
	accountRepo repositories.AccountRepository
	groupRepo   repositories.GroupRepository
}

// NewService creates an accounts service.
func NewService(accountRepo repositories.AccountRepository, groupRepo repositories.GroupRepository) *Service {
	return &Service{accountRepo: accountRepo, groupRepo: groupRepo}
}

// CreateRequest is the account creation payload.
type CreateRequest struct {
	Name            string `json:"name"`
	GroupID         *int64 `json:"groupId,omitempty"`
	RateLimitMinute int    `json:"rateLimitMinute,omitempty"`
	QuotaRequests   int64  `json:"quotaRequestsDay,omitempty"`
	QuotaTokensIn   int64  `json:"quotaInputTokensDay,omitempty"`
	QuotaTokensOut  int64  `json:"quotaOutputTokensDay,omitempty"`
}

// CreateResult carries the plaintext API key, shown exactly once.
type CreateResult struct {
	Account *account.Account `json:"account"`
	APIKey  string           `json:"apiKey"`
}

// Create validates, persists, and keys a new account.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.GroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *req.GroupID); err != nil {
			return nil, &ValidationError{Field: "groupId", Message: "group does not exist"}
		}
	}

	a, err := account.New(req.Name, req.GroupID)
	if err != nil {
		return nil, &ValidationError{Field: "name", Message: err.Error()}
	}
	if req.RateLimitMinute > 0 {
		a.RateLimitMinute = req.RateLimitMinute
	}
	if req.QuotaRequests > 0 {
		a.QuotaRequests = req.QuotaRequests
	}
	if req.QuotaTokensIn > 0 {
		a.QuotaTokensIn = req.QuotaTokensIn
	}
	if req.QuotaTokensOut > 0 {
		a.QuotaTokensOut = req.QuotaTokensOut
	}

	apiKey, err := newAPIKey()
	if err != nil {
		return nil, &ServiceError{Op: "generate_key", Err: err}
	}
	a.KeyHash = HashAPIKey(apiKey)

	if err := s.accountRepo.Save(ctx, a); err != nil {
		return nil, &ServiceError{Op: "save_account", Err: err}
	}
	return &CreateResult{Account: a, APIKey: apiKey}, nil
}

// UpdateRequest is the account update payload. Pointer fields are applied
// only when present.
type UpdateRequest struct {
	Name            *string         `json:"name,omitempty"`
	GroupID         *int64          `json:"groupId,omitempty"`
	ClearGroup      bool            `json:"clearGroup,omitempty"`
	Status          *account.Status `json:"status,omitempty"`
	RateLimitMinute *int            `json:"rateLimitMinute,omitempty"`
	QuotaRequests   *int64          `json:"quotaRequestsDay,omitempty"`
	QuotaTokensIn   *int64          `json:"quotaInputTokensDay,omitempty"`
	QuotaTokensOut  *int64          `json:"quotaOutputTokensDay,omitempty"`
}

// Update applies a partial update to an existing account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*account.Account, error) {
	a, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, &ServiceError{Op: "find_account", Err: err}
	}

	if req.Name != nil {
		fresh, err := account.New(*req.Name, a.GroupID)
		if err != nil {
			return nil, &ValidationError{Field: "name", Message: err.Error()}
		}
		a.Name = fresh.Name
	}
	if req.ClearGroup {
		a.GroupID = nil
	} else if req.GroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, *req.GroupID); err != nil {
			return nil, &ValidationError{Field: "groupId", Message: "group does not exist"}
		}
		a.GroupID = req.GroupID
	}
	if req.Status != nil {
		switch *req.Status {
		case account.StatusActive:
			a.Enable()
		case account.StatusDisabled:
			a.Disable()
		default:
			return nil, &ValidationError{Field: "status", Message: "must be active or disabled"}
		}
	}
	if req.RateLimitMinute != nil && *req.RateLimitMinute > 0 {
		a.RateLimitMinute = *req.RateLimitMinute
	}
	if req.QuotaRequests != nil && *req.QuotaRequests > 0 {
		a.QuotaRequests = *req.QuotaRequests
	}
	if req.QuotaTokensIn != nil && *req.QuotaTokensIn > 0 {
		a.QuotaTokensIn = *req.QuotaTokensIn
	}
	if req.QuotaTokensOut != nil && *req.QuotaTokensOut > 0 {
		a.QuotaTokensOut = *req.QuotaTokensOut
	}

	if err := s.accountRepo.Save(ctx, a); err != nil {
		return nil, &ServiceError{Op: "save_account", Err: err}
	}
	return a, nil
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (*account.Account, error) {
	return s.accountRepo.FindByID(ctx, id)
}

// List returns one page of accounts and the total matching count.
func (s *Service) List(ctx context.Context, q listing.Query) ([]*account.Account, int, error) {
	return s.accountRepo.List(ctx, q)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.accountRepo.Delete(ctx, id); err != nil {
		return &ServiceError{Op: "delete_account", Err: err}
	}
	return nil
}

// RegenerateKey replaces the account's API key and returns the new plaintext
// once.
func (s *Service) RegenerateKey(ctx context.Context, id int64) (string, error) {
	if _, err := s.accountRepo.FindByID(ctx, id); err != nil {
		return "", &ServiceError{Op: "find_account", Err: err}
	}
	apiKey, err := newAPIKey()
	if err != nil {
		return "", &ServiceError{Op: "generate_key", Err: err}
	}
	if err := s.accountRepo.UpdateKeyHash(ctx, id, HashAPIKey(apiKey)); err != nil {
		return "", &ServiceError{Op: "store_key", Err: err}
	}
	return apiKey, nil
}

// Authenticate resolves an active account from a plaintext API key.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*account.Account, error) {
	return s.accountRepo.FindByKeyHash(ctx, HashAPIKey(apiKey))
}

func newAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return "ag_" + hex.EncodeToString(b), nil
}

// HashAPIKey derives the storage hash for an API key.
func HashAPIKey(apiKey string) string {
	h := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(h[:])
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
	return fmt.Sprintf("accounts service [%s]: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
