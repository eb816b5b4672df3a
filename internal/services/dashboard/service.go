package dashboard

import (
	"context"
	"fmt"
	"time"

	"aigate/internal/domain/usage"
	"aigate/internal/store/repositories"
)

// Service serves the console landing-page aggregates.
type Service struct {
	usageRepo repositories.UsageRepository
}

// NewService creates a dashboard service.
func NewService(usageRepo repositories.UsageRepository) *Service {
	return &Service{usageRepo: usageRepo}
}

// Stats returns today's gateway-wide stats.
func (s *Service) Stats(ctx context.Context) (*usage.DashboardStats, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	stats, err := s.usageRepo.DashboardStats(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
