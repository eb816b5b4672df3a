package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aigate/internal/domain/account"
	"aigate/internal/domain/announcement"
	"aigate/internal/domain/group"
	"aigate/internal/domain/proxy"
	"aigate/internal/domain/usage"
	"aigate/internal/domain/user"
	"aigate/internal/listing"
)

// AccountRepository defines the contract for account data access
type AccountRepository interface {
	Save(ctx context.Context, a *account.Account) error
	FindByID(ctx context.Context, id int64) (*account.Account, error)
	FindByKeyHash(ctx context.Context, keyHash string) (*account.Account, error)
	List(ctx context.Context, q listing.Query) ([]*account.Account, int, error)
	UpdateKeyHash(ctx context.Context, id int64, keyHash string) error
	Delete(ctx context.Context, id int64) error
}

// GroupRepository defines the contract for group data access
type GroupRepository interface {
	Save(ctx context.Context, g *group.Group) error
	FindByID(ctx context.Context, id int64) (*group.Group, error)
	List(ctx context.Context, q listing.Query) ([]*group.Group, int, error)
	Delete(ctx context.Context, id int64) error
}

// ProxyRepository defines the contract for upstream target data access
type ProxyRepository interface {
	Save(ctx context.Context, p *proxy.Proxy) error
	FindByID(ctx context.Context, id int64) (*proxy.Proxy, error)
	FindEnabled(ctx context.Context) ([]*proxy.Proxy, error)
	List(ctx context.Context, q listing.Query) ([]*proxy.Proxy, int, error)
	Delete(ctx context.Context, id int64) error
}

// AnnouncementRepository defines the contract for announcement data access
type AnnouncementRepository interface {
	Save(ctx context.Context, a *announcement.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error)
	List(ctx context.Context, q listing.Query) ([]*announcement.Announcement, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for console user data access
type UserRepository interface {
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context, q listing.Query) ([]*user.User, int, error)
	Delete(ctx context.Context, id int64) error
}

// UsageRepository defines the contract for request-log rollup and dashboard reads
type UsageRepository interface {
	FetchUnrolled(ctx context.Context, limit int) ([]*usage.RequestLog, error)
	ApplyRollup(ctx context.Context, logs []*usage.RequestLog) error
	DashboardStats(ctx context.Context, day time.Time) (*usage.DashboardStats, error)
}
