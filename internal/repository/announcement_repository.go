package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// AnnouncementRepository manages public notices.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an AnnouncementRepository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns the most recent active announcements, newest first.
func (r *AnnouncementRepository) List(ctx context.Context, limit int) ([]models.Announcement, error) {
	const query = `SELECT announcement_id, title, body, posted_at, is_active
		FROM announcements WHERE is_active ORDER BY posted_at DESC LIMIT $1`
	var items []models.Announcement
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// Create inserts a notice.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	const query = `INSERT INTO announcements (title, body, posted_at, is_active)
		VALUES ($1, $2, $3, TRUE) RETURNING announcement_id`
	if err := r.db.GetContext(ctx, &a.AnnouncementID, query, a.Title, a.Body, a.PostedAt); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Delete removes a notice permanently.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE announcement_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
