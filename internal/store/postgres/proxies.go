package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/proxy"
	"aigate/internal/listing"
)

const proxyColumns = `id, name, platform, base_url, secret_enc, weight, enabled, created_at, updated_at`

// proxyRepository implements ProxyRepository with pure data access
type proxyRepository struct {
	db *pgxpool.Pool
}

// NewProxyRepository creates a new proxy repository
func NewProxyRepository(db *pgxpool.Pool) *proxyRepository {
	return &proxyRepository{db: db}
}

// Save saves a proxy target (insert or update)
func (r *proxyRepository) Save(ctx context.Context, p *proxy.Proxy) error {
	if p.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO proxies (name, platform, base_url, secret_enc, weight, enabled)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at`,
			p.Name, string(p.Platform), p.BaseURL, p.SecretEnc, p.Weight, p.Enabled,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE proxies
		SET name = $1, platform = $2, base_url = $3, secret_enc = $4,
			weight = $5, enabled = $6, updated_at = now()
		WHERE id = $7`,
		p.Name, string(p.Platform), p.BaseURL, p.SecretEnc, p.Weight, p.Enabled, p.ID)
	return err
}

// FindByID finds a proxy by ID
func (r *proxyRepository) FindByID(ctx context.Context, id int64) (*proxy.Proxy, error) {
	row := r.db.QueryRow(ctx, `SELECT `+proxyColumns+` FROM proxies WHERE id = $1`, id)
	return scanProxy(row)
}

// FindEnabled returns all enabled proxy targets, heaviest weight first
func (r *proxyRepository) FindEnabled(ctx context.Context) ([]*proxy.Proxy, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+proxyColumns+` FROM proxies WHERE enabled ORDER BY weight DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*proxy.Proxy
	for rows.Next() {
		p, err := scanProxy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns one page of proxies plus the total row count.
func (r *proxyRepository) List(ctx context.Context, q listing.Query) ([]*proxy.Proxy, int, error) {
	q.Normalize()

	var f listFilter
	if v, ok := q.Filter("platform"); ok {
		f.add("platform", "=", v)
	}
	if v, ok := q.Filter("enabled"); ok {
		f.add("enabled", "=", v == "true")
	}
	f.search(q.Search, "name", "base_url")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM proxies`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	tail, args := f.paged(q, "weight DESC, id ASC")
	rows, err := r.db.Query(ctx, `SELECT `+proxyColumns+` FROM proxies`+f.clause()+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*proxy.Proxy
	for rows.Next() {
		p, err := scanProxy(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Delete removes a proxy target
func (r *proxyRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM proxies WHERE id = $1`, id)
	return err
}

func scanProxy(row pgx.Row) (*proxy.Proxy, error) {
	var p proxy.Proxy
	var platform string
	err := row.Scan(&p.ID, &p.Name, &platform, &p.BaseURL, &p.SecretEnc,
		&p.Weight, &p.Enabled, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Platform = proxy.Platform(platform)
	return &p, nil
}
