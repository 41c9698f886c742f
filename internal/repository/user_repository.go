package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// ErrDuplicateEmail flags an insert that hit the unique email constraint.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository manages persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID fetches a user by its local ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT user_id, subject, name, email, role FROM users WHERE user_id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySubject fetches a user by its identity-provider subject.
func (r *UserRepository) FindBySubject(ctx context.Context, subject string) (*models.User, error) {
	const query = `SELECT user_id, subject, name, email, role FROM users WHERE subject = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, subject); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindStaffByID fetches a user only when it holds the staff role.
func (r *UserRepository) FindStaffByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `SELECT user_id, subject, name, email, role FROM users WHERE user_id = $1 AND role = $2`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, models.RoleStaff); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record and fills in the assigned ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (subject, name, email, role)
		VALUES ($1, $2, $3, $4) RETURNING user_id`
	if err := r.db.GetContext(ctx, &user.UserID, query, user.Subject, user.Name, user.Email, user.Role); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
