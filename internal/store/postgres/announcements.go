package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/announcement"
	"aigate/internal/listing"
)

const announcementColumns = `id, title, body, level, starts_at, ends_at, created_at, updated_at`

// announcementRepository implements AnnouncementRepository with pure data access
type announcementRepository struct {
	db *pgxpool.Pool
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *pgxpool.Pool) *announcementRepository {
	return &announcementRepository{db: db}
}

// Save saves an announcement (insert or update, keyed by uuid)
func (r *announcementRepository) Save(ctx context.Context, a *announcement.Announcement) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO announcements (id, title, body, level, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, body = EXCLUDED.body, level = EXCLUDED.level,
			starts_at = EXCLUDED.starts_at, ends_at = EXCLUDED.ends_at, updated_at = now()
		RETURNING created_at, updated_at`,
		a.ID, a.Title, a.Body, string(a.Level), a.StartsAt, a.EndsAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// FindByID finds an announcement by ID
func (r *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	row := r.db.QueryRow(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id)
	return scanAnnouncement(row)
}

// List returns one page of announcements plus the total row count.
func (r *announcementRepository) List(ctx context.Context, q listing.Query) ([]*announcement.Announcement, int, error) {
	q.Normalize()

	var f listFilter
	if v, ok := q.Filter("level"); ok {
		f.add("level", "=", v)
	}
	f.search(q.Search, "title", "body")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`+f.clause(), f.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	tail, args := f.paged(q, "starts_at DESC, id ASC")
	rows, err := r.db.Query(ctx, `SELECT `+announcementColumns+` FROM announcements`+f.clause()+tail, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*announcement.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// Delete removes an announcement
func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	return err
}

func scanAnnouncement(row pgx.Row) (*announcement.Announcement, error) {
	var a announcement.Announcement
	var level string
	err := row.Scan(&a.ID, &a.Title, &a.Body, &level, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Level = announcement.Level(level)
	return &a, nil
}
