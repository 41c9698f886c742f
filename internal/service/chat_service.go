package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

// PostMessageRequest holds one outgoing chat message.
type PostMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ChatService relays per-library chat through Redis sorted sets keyed by
// send time. Only the most recent window is retained; the store is the
// single source of truth, nothing lands in Postgres.
type ChatService struct {
	rdb       *redis.Client
	libraries circulationLibraryRepository
	limit     int
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewChatService constructs the chat relay.
func NewChatService(rdb *redis.Client, libraries circulationLibraryRepository, cfg config.ChatConfig, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := cfg.HistoryLimit
	if limit <= 0 {
		limit = 50
	}
	return &ChatService{
		rdb:       rdb,
		libraries: libraries,
		limit:     limit,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func chatKey(libraryID int64) string {
	return fmt.Sprintf("chat:%d:messages", libraryID)
}

// Post appends a message to the library's stream and trims history to the
// retention window in the same pipeline.
func (s *ChatService) Post(ctx context.Context, actor *models.User, libraryID int64, req PostMessageRequest) (*models.ChatMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}

	now := s.now()
	msg := &models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		Name:      actor.Name,
		Text:      req.Text,
		Timestamp: now.Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode message")
	}

	key := chatKey(libraryID)
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: payload})
	pipe.ZRemRangeByRank(ctx, key, 0, int64(-s.limit-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to relay message")
	}
	return msg, nil
}

// History returns the retained messages of a library in chronological order.
func (s *ChatService) History(ctx context.Context, libraryID int64) ([]models.ChatMessage, error) {
	if err := s.requireLibrary(ctx, libraryID); err != nil {
		return nil, err
	}

	raw, err := s.rdb.ZRange(ctx, chatKey(libraryID), int64(-s.limit), -1).Result()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read chat history")
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, entry := range raw {
		var msg models.ChatMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			s.logger.Warn("skipping malformed chat entry", zap.Int64("library_id", libraryID), zap.Error(err))
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *ChatService) requireLibrary(ctx context.Context, libraryID int64) error {
	exists, err := s.libraries.Exists(ctx, libraryID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check library")
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "library not found")
	}
	return nil
}
