package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	appErrors "github.com/HackGhosT04/sccs-library-db/pkg/errors"
)

type studyRoomRepository interface {
	Create(ctx context.Context, room *models.StudyRoom) error
	Find(ctx context.Context, roomID int64) (*models.StudyRoom, error)
	ListActive(ctx context.Context) ([]models.StudyRoomListing, error)
	AddMember(ctx context.Context, member *models.StudyRoomMember) error
	FindMember(ctx context.Context, roomID, userID int64) (*models.StudyRoomMember, error)
	FindMediaByID(ctx context.Context, mediaID int64) (*models.StudyRoomMedia, error)
	ListMembers(ctx context.Context, roomID int64, status models.MembershipStatus) ([]models.StudyRoomMemberDetail, error)
	UpdateMemberStatus(ctx context.Context, memberID int64, status models.MembershipStatus, joinedAt *time.Time) error
	AddMedia(ctx context.Context, media *models.StudyRoomMedia) error
	ListMedia(ctx context.Context, roomID int64) ([]models.StudyRoomMediaDetail, error)
	GetMindMap(ctx context.Context, roomID int64) (models.MindMapDocument, error)
	SaveMindMap(ctx context.Context, roomID int64, doc models.MindMapDocument) error
}

type mediaStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

// CreateStudyRoomRequest holds payload for opening a study room.
type CreateStudyRoomRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	Capacity    int    `json:"capacity" validate:"min=0"`
}

// JoinStudyRoomRequest holds the contact details sent with a join request.
type JoinStudyRoomRequest struct {
	StudentNumber string `json:"student_number" validate:"required"`
	StudentEmail  string `json:"student_email" validate:"required,email"`
}

// StudyRoomDetail is a room plus the caller's relationship to it.
type StudyRoomDetail struct {
	models.StudyRoom
	IsCreator bool `json:"is_creator"`
}

// MediaUpload carries one incoming file.
type MediaUpload struct {
	FileName string
	Size     int64
	Reader   io.Reader
}

// StudyRoomService manages rooms, memberships, shared media and the
// per-room mind-map.
type StudyRoomService struct {
	repo      studyRoomRepository
	store     mediaStore
	media     config.MediaConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudyRoomService constructs the study-room service.
func NewStudyRoomService(repo studyRoomRepository, store mediaStore, media config.MediaConfig, validate *validator.Validate, logger *zap.Logger) *StudyRoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudyRoomService{
		repo:      repo,
		store:     store,
		media:     media,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a room; the creator is enrolled as an approved member.
func (s *StudyRoomService) Create(ctx context.Context, actor *models.User, req CreateStudyRoomRequest) (*models.StudyRoom, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid study room payload")
	}

	room := &models.StudyRoom{
		Name:        req.Name,
		Description: req.Description,
		Subject:     req.Subject,
		Capacity:    req.Capacity,
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now(),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create study room")
	}
	return room, nil
}

// List returns active rooms with member counts.
func (s *StudyRoomService) List(ctx context.Context) ([]models.StudyRoomListing, error) {
	rooms, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list study rooms")
	}
	return rooms, nil
}

// Get returns one room with the caller's creator flag. Approved members
// only.
func (s *StudyRoomService) Get(ctx context.Context, actor *models.User, roomID int64) (*StudyRoomDetail, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return nil, err
	}
	return &StudyRoomDetail{StudyRoom: *room, IsCreator: room.CreatedBy == actor.UserID}, nil
}

// Membership reports the caller's membership status in a room, or
// "not_member" when no request exists.
func (s *StudyRoomService) Membership(ctx context.Context, actor *models.User, roomID int64) (string, error) {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return "", err
	}
	member, err := s.repo.FindMember(ctx, roomID, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "not_member", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	return string(member.Status), nil
}

// Join files a pending membership request. A second request for the same
// room is a conflict no matter what state the first is in.
func (s *StudyRoomService) Join(ctx context.Context, actor *models.User, roomID int64, req JoinStudyRoomRequest) (*models.StudyRoomMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid join payload")
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	member := &models.StudyRoomMember{
		RoomID:        roomID,
		UserID:        actor.UserID,
		StudentNumber: &req.StudentNumber,
		StudentEmail:  &req.StudentEmail,
		Status:        models.MembershipPending,
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicateMembership) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "membership request already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to join study room")
	}
	return member, nil
}

// Members returns a room's approved members. Approved members only.
func (s *StudyRoomService) Members(ctx context.Context, actor *models.User, roomID int64) ([]models.StudyRoomMemberDetail, error) {
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, roomID, models.MembershipApproved)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list members")
	}
	return members, nil
}

// PendingMembers returns a room's pending join requests. Room creator only.
func (s *StudyRoomService) PendingMembers(ctx context.Context, actor *models.User, roomID int64) ([]models.StudyRoomMemberDetail, error) {
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the room creator reviews requests")
	}
	members, err := s.repo.ListMembers(ctx, roomID, models.MembershipPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending members")
	}
	return members, nil
}

// ResolveMember approves or rejects a user's pending request. Room creator
// only; approval stamps the join time.
func (s *StudyRoomService) ResolveMember(ctx context.Context, actor *models.User, roomID, targetUserID int64, status models.MembershipStatus) (*models.StudyRoomMember, error) {
	if status != models.MembershipApproved && status != models.MembershipRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatedBy != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the room creator reviews requests")
	}

	member, err := s.repo.FindMember(ctx, roomID, targetUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "membership not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load membership")
	}
	if member.Status != models.MembershipPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "membership already resolved")
	}

	var joinedAt *time.Time
	if status == models.MembershipApproved {
		now := s.now()
		joinedAt = &now
	}
	if err := s.repo.UpdateMemberStatus(ctx, member.MemberID, status, joinedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve membership")
	}
	member.Status = status
	member.JoinedAt = joinedAt
	return member, nil
}

// UploadMedia stores a file under a generated name and records it against
// the room. Approved members only.
func (s *StudyRoomService) UploadMedia(ctx context.Context, actor *models.User, roomID int64, upload MediaUpload) (*models.StudyRoomMedia, error) {
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if !s.allowedExt(ext) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file type not allowed")
	}
	if upload.Size > s.media.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the size limit")
	}

	stored := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	path, err := s.store.SaveStream(stored, upload.Reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	media := &models.StudyRoomMedia{
		RoomID:     roomID,
		UserID:     actor.UserID,
		FileName:   upload.FileName,
		FileType:   strings.TrimPrefix(ext, "."),
		FilePath:   path,
		UploadedAt: s.now(),
	}
	if err := s.repo.AddMedia(ctx, media); err != nil {
		// The file has no database record; remove it instead of leaving
		// an orphan on disk.
		if delErr := s.store.Delete(stored); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("file", stored), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record upload")
	}
	return media, nil
}

// ListMedia returns a room's uploads. Approved members only.
func (s *StudyRoomService) ListMedia(ctx context.Context, actor *models.User, roomID int64) ([]models.StudyRoomMediaDetail, error) {
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return nil, err
	}
	media, err := s.repo.ListMedia(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}
	return media, nil
}

// OpenMedia returns a reader over a stored file plus its metadata for
// download. Approved members of the owning room only.
func (s *StudyRoomService) OpenMedia(ctx context.Context, actor *models.User, mediaID int64) (*models.StudyRoomMedia, io.ReadCloser, error) {
	media, err := s.repo.FindMediaByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load media")
	}
	if err := s.requireApprovedMember(ctx, actor, media.RoomID); err != nil {
		return nil, nil, err
	}
	f, err := s.store.Open(filepath.Base(media.FilePath))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	return media, f, nil
}

// MindMap loads a room's shared document; a room that has never saved one
// gets the empty document, not an error. Approved members only.
func (s *StudyRoomService) MindMap(ctx context.Context, actor *models.User, roomID int64) (models.MindMapDocument, error) {
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return models.MindMapDocument{}, err
	}
	doc, err := s.repo.GetMindMap(ctx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EmptyMindMap(), nil
		}
		return models.MindMapDocument{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mind-map")
	}
	if doc.Nodes == nil {
		doc.Nodes = []json.RawMessage{}
	}
	if doc.Connections == nil {
		doc.Connections = []json.RawMessage{}
	}
	return doc, nil
}

// SaveMindMap replaces a room's shared document wholesale. Approved members
// only.
func (s *StudyRoomService) SaveMindMap(ctx context.Context, actor *models.User, roomID int64, doc models.MindMapDocument) error {
	if err := s.requireApprovedMember(ctx, actor, roomID); err != nil {
		return err
	}
	if err := s.repo.SaveMindMap(ctx, roomID, doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save mind-map")
	}
	return nil
}

func (s *StudyRoomService) getRoom(ctx context.Context, roomID int64) (*models.StudyRoom, error) {
	room, err := s.repo.Find(ctx, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "study room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load study room")
	}
	return room, nil
}

func (s *StudyRoomService) requireApprovedMember(ctx context.Context, actor *models.User, roomID int64) error {
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return err
	}
	member, err := s.repo.FindMember(ctx, roomID, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "approved membership required")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check membership")
	}
	if member.Status != models.MembershipApproved {
		return appErrors.Clone(appErrors.ErrForbidden, "approved membership required")
	}
	return nil
}

func (s *StudyRoomService) allowedExt(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range s.media.AllowedExts {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
