package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/group"
	"aigate/internal/listing"
)

// groupRepository implements GroupRepository with pure data access
type groupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *pgxpool.Pool) *groupRepository {
	return &groupRepository{db: db}
}

// Save saves a group (insert or update)
func (r *groupRepository) Save(ctx context.Context, g *group.Group) error {
	if g.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO groups (name, rate_multiplier, route_tag)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at`,
			g.Name, g.Multiplier, g.RouteTag,
		).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE groups
		SET name = $1, rate_multiplier = $2, route_tag = $3, updated_at = now()
		WHERE id = $4`,
		g.Name, g.Multiplier, g.RouteTag, g.ID)
	return err
}

// FindByID finds a group by ID
func (r *groupRepository) FindByID(ctx context.Context, id int64) (*group.Group, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, rate_multiplier, route_tag, created_at, updated_at
		FROM groups WHERE id = $1`, id)
	return scanGroup(row)
}

// List returns one page of groups plus the total row count.
func (r *groupRepository) List(ctx context.Context, q listing.Query) ([]*group.Group, int, error) {
	q.Normalize()

	var f listFilter
	if v, ok := q.Filter("routeTag"); ok {
		f.add("route_tag", "=", v)
	}
	f.search(q.Search, "name", "route_tag")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM groups`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	tail, args := f.paged(q, "name ASC, id ASC")
	rows, err := r.db.Query(ctx, `
		SELECT id, name, rate_multiplier, route_tag, created_at, updated_at
		FROM groups`+f.clause()+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*group.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

// Delete removes a group
func (r *groupRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

func scanGroup(row pgx.Row) (*group.Group, error) {
	var g group.Group
	err := row.Scan(&g.ID, &g.Name, &g.Multiplier, &g.RouteTag, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
