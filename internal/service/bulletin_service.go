package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, limit int) ([]models.Announcement, error)
	Create(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id int64) error
}

type requestRepository interface {
	CreatePurchaseRequest(ctx context.Context, req *models.PurchaseRequest) error
	ListPurchaseRequests(ctx context.Context, userID *int64) ([]models.PurchaseRequest, error)
	CreateRecommendation(ctx context.Context, rec *models.Recommendation) error
	ListRecommendations(ctx context.Context) ([]models.Recommendation, error)
}

// CreateAnnouncementRequest holds payload for posting a notice.
type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

// PurchaseRequestInput holds payload for an acquisition request.
type PurchaseRequestInput struct {
	Title         string  `json:"title" validate:"required"`
	Author        string  `json:"author" validate:"required"`
	ISBN          *string `json:"isbn"`
	Justification string  `json:"justification"`
}

// RecommendationInput holds payload for free-form feedback.
type RecommendationInput struct {
	Category string `json:"category" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

// BulletinService covers announcements, purchase requests and
// recommendations.
type BulletinService struct {
	announcements announcementRepository
	requests      requestRepository
	validator     *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
}

// NewBulletinService constructs the bulletin service.
func NewBulletinService(announcements announcementRepository, requests requestRepository, validate *validator.Validate, logger *zap.Logger) *BulletinService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulletinService{
		announcements: announcements,
		requests:      requests,
		validator:     validate,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListAnnouncements returns active notices, newest first. Public.
func (s *BulletinService) ListAnnouncements(ctx context.Context, limit int) ([]models.Announcement, error) {
	if limit <= 0 {
		limit = 5
	}
	items, err := s.announcements.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	return items, nil
}

// CreateAnnouncement posts a notice. Staff only.
func (s *BulletinService) CreateAnnouncement(ctx context.Context, actor *models.User, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	a := &models.Announcement{Title: req.Title, Body: req.Body, PostedAt: s.now(), IsActive: true}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return a, nil
}

// DeleteAnnouncement removes a notice permanently. Staff only.
func (s *BulletinService) DeleteAnnouncement(ctx context.Context, actor *models.User, id int64) error {
	if !actor.IsStaff() {
		return appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}

// SubmitPurchaseRequest files an acquisition request as open.
func (s *BulletinService) SubmitPurchaseRequest(ctx context.Context, actor *models.User, input PurchaseRequestInput) (*models.PurchaseRequest, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid purchase request payload")
	}

	req := &models.PurchaseRequest{
		UserID:        actor.UserID,
		Title:         input.Title,
		Author:        input.Author,
		ISBN:          input.ISBN,
		Justification: input.Justification,
		Status:        models.PurchaseOpen,
		RequestedAt:   s.now(),
	}
	if err := s.requests.CreatePurchaseRequest(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit purchase request")
	}
	return req, nil
}

// ListPurchaseRequests returns acquisition requests: staff see all, other
// users only their own.
func (s *BulletinService) ListPurchaseRequests(ctx context.Context, actor *models.User) ([]models.PurchaseRequest, error) {
	var userID *int64
	if !actor.IsStaff() {
		userID = &actor.UserID
	}
	reqs, err := s.requests.ListPurchaseRequests(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchase requests")
	}
	return reqs, nil
}

// SubmitRecommendation files feedback as new.
func (s *BulletinService) SubmitRecommendation(ctx context.Context, actor *models.User, input RecommendationInput) (*models.Recommendation, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recommendation payload")
	}

	rec := &models.Recommendation{
		UserID:      actor.UserID,
		Category:    input.Category,
		Content:     input.Content,
		SubmittedAt: s.now(),
		Status:      models.RecommendationNew,
	}
	if err := s.requests.CreateRecommendation(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit recommendation")
	}
	return rec, nil
}

// ListRecommendations returns all feedback. Staff only.
func (s *BulletinService) ListRecommendations(ctx context.Context, actor *models.User) ([]models.Recommendation, error) {
	if !actor.IsStaff() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	recs, err := s.requests.ListRecommendations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recommendations")
	}
	return recs, nil
}
