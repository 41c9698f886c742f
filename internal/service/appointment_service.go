package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type appointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	Find(ctx context.Context, id int64) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status models.AppointmentStatus) error
}

type appointmentUserRepository interface {
	FindStaffByID(ctx context.Context, id int64) (*models.User, error)
}

// BookAppointmentRequest holds payload for booking a librarian consultation.
type BookAppointmentRequest struct {
	LibrarianUserID int64     `json:"librarian_user_id" validate:"required"`
	LibraryID       int64     `json:"library_id" validate:"required"`
	StartDatetime   time.Time `json:"start_datetime" validate:"required"`
	EndDatetime     time.Time `json:"end_datetime" validate:"required"`
	Notes           string    `json:"notes"`
}

// AppointmentService books and manages librarian consultation slots.
type AppointmentService struct {
	repo      appointmentRepository
	users     appointmentUserRepository
	libraries circulationLibraryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAppointmentService constructs the appointment service.
func NewAppointmentService(repo appointmentRepository, users appointmentUserRepository, libraries circulationLibraryRepository, validate *validator.Validate, logger *zap.Logger) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, users: users, libraries: libraries, validator: validate, logger: logger}
}

// Book creates a pending appointment after checking the librarian exists,
// the window is well-formed, and no overlapping slot survives the race.
func (s *AppointmentService) Book(ctx context.Context, actor *models.User, req BookAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid appointment payload")
	}
	if !req.EndDatetime.After(req.StartDatetime) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}

	exists, err := s.libraries.Exists(ctx, req.LibraryID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check library")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "library not found")
	}
	if _, err := s.users.FindStaffByID(ctx, req.LibrarianUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "librarian not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve librarian")
	}

	appt := &models.Appointment{
		UserID:          actor.UserID,
		LibrarianUserID: req.LibrarianUserID,
		LibraryID:       req.LibraryID,
		StartDatetime:   req.StartDatetime,
		EndDatetime:     req.EndDatetime,
		Status:          models.AppointmentPending,
		Notes:           req.Notes,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrAppointmentOverlap) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "librarian is booked for that window")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "librarian not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book appointment")
	}
	return appt, nil
}

// List returns the caller's appointments; staff see their own librarian
// schedule instead.
func (s *AppointmentService) List(ctx context.Context, actor *models.User) ([]models.Appointment, error) {
	filter := models.AppointmentFilter{UserID: &actor.UserID}
	if actor.IsStaff() {
		filter = models.AppointmentFilter{LibrarianID: &actor.UserID}
	}
	appts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return appts, nil
}

// UpdateStatus moves an appointment through its lifecycle. The booker may
// only cancel; the librarian or any staff may set any status.
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor *models.User, id int64, status models.AppointmentStatus) (*models.Appointment, error) {
	if !models.ValidAppointmentStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown appointment status")
	}

	appt, err := s.repo.Find(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}

	if !actor.IsStaff() {
		if appt.UserID != actor.UserID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another user")
		}
		if status != models.AppointmentCancelled {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only cancellation is allowed")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment")
	}
	appt.Status = status
	return appt, nil
}
