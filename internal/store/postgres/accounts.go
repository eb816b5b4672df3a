package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/account"
	"aigate/internal/listing"
)

const accountColumns = `id, name, group_id, status, key_hash, rate_limit_minute,
	quota_requests_day, quota_input_tokens_day, quota_output_tokens_day,
	created_at, updated_at`

// accountRepository implements AccountRepository with pure data access
type accountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *pgxpool.Pool) *accountRepository {
	return &accountRepository{db: db}
}

// Save saves an account (insert or update)
func (r *accountRepository) Save(ctx context.Context, a *account.Account) error {
	if a.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO accounts (name, group_id, status, key_hash, rate_limit_minute,
				quota_requests_day, quota_input_tokens_day, quota_output_tokens_day)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at`,
			a.Name, a.GroupID, string(a.Status), a.KeyHash, a.RateLimitMinute,
			a.QuotaRequests, a.QuotaTokensIn, a.QuotaTokensOut,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET name = $1, group_id = $2, status = $3, rate_limit_minute = $4,
			quota_requests_day = $5, quota_input_tokens_day = $6,
			quota_output_tokens_day = $7, updated_at = now()
		WHERE id = $8`,
		a.Name, a.GroupID, string(a.Status), a.RateLimitMinute,
		a.QuotaRequests, a.QuotaTokensIn, a.QuotaTokensOut, a.ID)
	return err
}

// FindByID finds an account by ID
func (r *accountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

// FindByKeyHash finds an active account by its API key hash
func (r *accountRepository) FindByKeyHash(ctx context.Context, keyHash string) (*account.Account, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE key_hash = $1 AND status = 'active'`, keyHash)
	return scanAccount(row)
}

// List returns one page of accounts plus the total row count for the same
// filter/search conditions.
func (r *accountRepository) List(ctx context.Context, q listing.Query) ([]*account.Account, int, error) {
	q.Normalize()

	var f listFilter
	if v, ok := q.Filter("status"); ok {
		f.add("status", "=", v)
	}
	if v, ok := q.Filter("group"); ok {
		f.add("group_id", "=", v)
	}
	f.search(q.Search, "name")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	tail, args := f.paged(q, "created_at DESC, id DESC")
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts`+f.clause()+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*account.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// UpdateKeyHash replaces the stored API key hash (key regeneration)
func (r *accountRepository) UpdateKeyHash(ctx context.Context, id int64, keyHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE accounts SET key_hash = $1, updated_at = now() WHERE id = $2`,
		keyHash, id)
	return err
}

// Delete removes an account
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	return err
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	var status string
	err := row.Scan(&a.ID, &a.Name, &a.GroupID, &status, &a.KeyHash, &a.RateLimitMinute,
		&a.QuotaRequests, &a.QuotaTokensIn, &a.QuotaTokensOut, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Status = account.Status(status)
	return &a, nil
}
