package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/user"
	"aigate/internal/listing"
)

const userColumns = `id, email, display_name, role, password_hash, status, created_at, updated_at`

// userRepository implements UserRepository with pure data access
type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *userRepository {
	return &userRepository{db: db}
}

// Save saves a user (insert or update)
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	if u.ID == 0 {
		return r.db.QueryRow(ctx, `
			INSERT INTO users (email, display_name, role, password_hash, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			u.Email, u.DisplayName, string(u.Role), u.PasswordHash, string(u.Status),
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	}
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, display_name = $2, role = $3, password_hash = $4,
			status = $5, updated_at = now()
		WHERE id = $6`,
		u.Email, u.DisplayName, string(u.Role), u.PasswordHash, string(u.Status), u.ID)
	return err
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// FindByEmail finds a user by normalized email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = lower($1)`, email)
	return scanUser(row)
}

// List returns one page of users plus the total row count.
func (r *userRepository) List(ctx context.Context, q listing.Query) ([]*user.User, int, error) {
	q.Normalize()

	var f listFilter
	if v, ok := q.Filter("role"); ok {
		f.add("role", "=", v)
	}
	if v, ok := q.Filter("status"); ok {
		f.add("status", "=", v)
	}
	f.search(q.Search, "email", "display_name")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	tail, args := f.paged(q, "email ASC, id ASC")
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`+f.clause()+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// Delete removes a user
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var role, status string
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &role, &u.PasswordHash, &status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = user.Role(role)
	u.Status = user.Status(status)
	return &u, nil
}
