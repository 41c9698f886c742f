package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

// TokenVerifier checks an identity-provider bearer token and returns the
// stable subject it asserts.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// JWTVerifier validates HS256 bearer tokens minted by the identity provider.
type JWTVerifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewJWTVerifier constructs a JWTVerifier from the identity configuration.
func NewJWTVerifier(cfg config.IdentityConfig) *JWTVerifier {
	return &JWTVerifier{secret: []byte(cfg.TokenSecret), issuer: cfg.Issuer, leeway: cfg.Leeway}
}

// Verify parses and validates the token and extracts its subject claim.
func (v *JWTVerifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "token has no subject")
	}
	return subject, nil
}

type identityUserRepository interface {
	FindBySubject(ctx context.Context, subject string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// RegisterUserRequest holds the profile supplied on first contact.
type RegisterUserRequest struct {
	Name  string          `json:"name" validate:"required"`
	Email string          `json:"email" validate:"required,email"`
	Role  models.UserRole `json:"role"`
}

// IdentityService resolves verified identity-provider subjects to local
// user records. Credentials never touch this service; the provider owns them.
type IdentityService struct {
	repo      identityUserRepository
	verifier  TokenVerifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIdentityService constructs the identity service.
func NewIdentityService(repo identityUserRepository, verifier TokenVerifier, validate *validator.Validate, logger *zap.Logger) *IdentityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{repo: repo, verifier: verifier, validator: validate, logger: logger}
}

// Authenticate verifies the bearer token and resolves its subject to the
// local user record. An unknown subject is unauthorized until registered.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	subject, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown identity subject")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve subject")
	}
	return user, nil
}

// Register links a verified subject to a local profile. Registering an
// already-linked subject returns the existing record unchanged.
func (s *IdentityService) Register(ctx context.Context, token string, req RegisterUserRequest) (*models.User, error) {
	subject, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	if existing, err := s.repo.FindBySubject(ctx, subject); err == nil {
		return existing, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject")
	}

	user := &models.User{
		Subject: subject,
		Name:    req.Name,
		Email:   req.Email,
		Role:    role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	s.logger.Info("user registered", zap.Int64("user_id", user.UserID), zap.String("role", string(user.Role)))
	return user, nil
}

// GetUser loads a user by local ID.
func (s *IdentityService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}
