package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// RequestRepository manages purchase requests and recommendations.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// CreatePurchaseRequest inserts an acquisition request.
func (r *RequestRepository) CreatePurchaseRequest(ctx context.Context, req *models.PurchaseRequest) error {
	const query = `INSERT INTO purchase_requests (user_id, title, author, isbn, justification, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING request_id`
	if err := r.db.GetContext(ctx, &req.RequestID, query,
		req.UserID, req.Title, req.Author, req.ISBN, req.Justification, req.Status, req.RequestedAt); err != nil {
		return fmt.Errorf("create purchase request: %w", err)
	}
	return nil
}

// ListPurchaseRequests returns acquisition requests newest first, optionally
// narrowed to one requester.
func (r *RequestRepository) ListPurchaseRequests(ctx context.Context, userID *int64) ([]models.PurchaseRequest, error) {
	query := `SELECT request_id, user_id, title, author, isbn, justification, status, requested_at
		FROM purchase_requests`
	var args []interface{}
	if userID != nil {
		query += ` WHERE user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY requested_at DESC`

	var reqs []models.PurchaseRequest
	if err := r.db.SelectContext(ctx, &reqs, query, args...); err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	return reqs, nil
}

// CreateRecommendation inserts a feedback entry.
func (r *RequestRepository) CreateRecommendation(ctx context.Context, rec *models.Recommendation) error {
	const query = `INSERT INTO recommendations (user_id, category, content, submitted_at, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING rec_id`
	if err := r.db.GetContext(ctx, &rec.RecID, query,
		rec.UserID, rec.Category, rec.Content, rec.SubmittedAt, rec.Status); err != nil {
		return fmt.Errorf("create recommendation: %w", err)
	}
	return nil
}

// ListRecommendations returns all feedback entries, newest first.
func (r *RequestRepository) ListRecommendations(ctx context.Context) ([]models.Recommendation, error) {
	const query = `SELECT rec_id, user_id, category, content, submitted_at, status
		FROM recommendations ORDER BY submitted_at DESC`
	var recs []models.Recommendation
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}
