package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/HackGhosT04/sccs-library-db/internal/models"
)

// ErrDuplicateMembership signals a second join request for the same
// (room, user) pair, surfaced from the table's unique constraint.
var ErrDuplicateMembership = errors.New("membership already exists")

const pqUniqueViolation = "23505"

// StudyRoomRepository manages study rooms, memberships, shared media rows
// and the per-room mind-map document.
type StudyRoomRepository struct {
	db *sqlx.DB
}

// NewStudyRoomRepository constructs a StudyRoomRepository.
func NewStudyRoomRepository(db *sqlx.DB) *StudyRoomRepository {
	return &StudyRoomRepository{db: db}
}

// Create inserts the room and enrolls its creator as an approved member in
// the same transaction, so a room is never visible without its owner.
func (r *StudyRoomRepository) Create(ctx context.Context, room *models.StudyRoom) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin study room transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insert = `INSERT INTO study_rooms (name, description, subject, capacity, created_by, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE) RETURNING room_id`
	if err = tx.GetContext(ctx, &room.RoomID, insert,
		room.Name, room.Description, room.Subject, room.Capacity, room.CreatedBy, room.CreatedAt); err != nil {
		return fmt.Errorf("insert study room: %w", err)
	}

	const enroll = `INSERT INTO study_room_members (room_id, user_id, status, joined_at)
		VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, enroll, room.RoomID, room.CreatedBy, models.MembershipApproved, room.CreatedAt); err != nil {
		return fmt.Errorf("enroll creator: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit study room: %w", err)
	}
	return nil
}

// Find fetches an active study room by ID.
func (r *StudyRoomRepository) Find(ctx context.Context, roomID int64) (*models.StudyRoom, error) {
	const query = `SELECT room_id, name, description, subject, capacity, created_by, created_at, is_active
		FROM study_rooms WHERE room_id = $1 AND is_active`
	var room models.StudyRoom
	if err := r.db.GetContext(ctx, &room, query, roomID); err != nil {
		return nil, err
	}
	return &room, nil
}

// ListActive returns all active rooms with their approved member counts.
func (r *StudyRoomRepository) ListActive(ctx context.Context) ([]models.StudyRoomListing, error) {
	const query = `SELECT sr.room_id, sr.name, sr.description, sr.subject, sr.capacity,
			sr.created_by, sr.created_at, sr.is_active,
			COUNT(m.member_id) FILTER (WHERE m.status = $1) AS member_count
		FROM study_rooms sr
		LEFT JOIN study_room_members m ON m.room_id = sr.room_id
		WHERE sr.is_active
		GROUP BY sr.room_id
		ORDER BY sr.created_at DESC`
	var rooms []models.StudyRoomListing
	if err := r.db.SelectContext(ctx, &rooms, query, models.MembershipApproved); err != nil {
		return nil, fmt.Errorf("list study rooms: %w", err)
	}
	return rooms, nil
}

// AddMember inserts a membership row. A repeat request for the same pair is
// rejected by the unique constraint regardless of current status.
func (r *StudyRoomRepository) AddMember(ctx context.Context, member *models.StudyRoomMember) error {
	const query = `INSERT INTO study_room_members (room_id, user_id, student_number, student_email, status, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING member_id`
	err := r.db.GetContext(ctx, &member.MemberID, query,
		member.RoomID, member.UserID, member.StudentNumber, member.StudentEmail, member.Status, member.JoinedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrDuplicateMembership
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// FindMember fetches the membership of a user in a room, if any.
func (r *StudyRoomRepository) FindMember(ctx context.Context, roomID, userID int64) (*models.StudyRoomMember, error) {
	const query = `SELECT member_id, room_id, user_id, student_number, student_email, status, joined_at
		FROM study_room_members WHERE room_id = $1 AND user_id = $2`
	var member models.StudyRoomMember
	if err := r.db.GetContext(ctx, &member, query, roomID, userID); err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers returns a room's memberships in the given status with the
// users' display names.
func (r *StudyRoomRepository) ListMembers(ctx context.Context, roomID int64, status models.MembershipStatus) ([]models.StudyRoomMemberDetail, error) {
	const query = `SELECT m.member_id, m.room_id, m.user_id, m.student_number, m.student_email,
			m.status, m.joined_at, u.name AS user_name
		FROM study_room_members m
		JOIN users u ON u.user_id = m.user_id
		WHERE m.room_id = $1 AND m.status = $2
		ORDER BY m.member_id`
	var members []models.StudyRoomMemberDetail
	if err := r.db.SelectContext(ctx, &members, query, roomID, status); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// UpdateMemberStatus resolves a pending membership. Approval stamps the
// join time.
func (r *StudyRoomRepository) UpdateMemberStatus(ctx context.Context, memberID int64, status models.MembershipStatus, joinedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE study_room_members SET status = $2, joined_at = COALESCE($3, joined_at) WHERE member_id = $1`,
		memberID, status, joinedAt)
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindMediaByID fetches one upload by its own ID.
func (r *StudyRoomRepository) FindMediaByID(ctx context.Context, mediaID int64) (*models.StudyRoomMedia, error) {
	const query = `SELECT media_id, room_id, user_id, file_name, file_type, file_path, uploaded_at
		FROM study_room_media WHERE media_id = $1`
	var media models.StudyRoomMedia
	if err := r.db.GetContext(ctx, &media, query, mediaID); err != nil {
		return nil, err
	}
	return &media, nil
}

// AddMedia records an uploaded file.
func (r *StudyRoomRepository) AddMedia(ctx context.Context, media *models.StudyRoomMedia) error {
	const query = `INSERT INTO study_room_media (room_id, user_id, file_name, file_type, file_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING media_id`
	if err := r.db.GetContext(ctx, &media.MediaID, query,
		media.RoomID, media.UserID, media.FileName, media.FileType, media.FilePath, media.UploadedAt); err != nil {
		return fmt.Errorf("add media: %w", err)
	}
	return nil
}

// ListMedia returns a room's uploads, newest first, with uploader names.
func (r *StudyRoomRepository) ListMedia(ctx context.Context, roomID int64) ([]models.StudyRoomMediaDetail, error) {
	const query = `SELECT md.media_id, md.room_id, md.user_id, md.file_name, md.file_type, md.file_path,
			md.uploaded_at, u.name AS user_name
		FROM study_room_media md
		JOIN users u ON u.user_id = md.user_id
		WHERE md.room_id = $1
		ORDER BY md.uploaded_at DESC`
	var media []models.StudyRoomMediaDetail
	if err := r.db.SelectContext(ctx, &media, query, roomID); err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return media, nil
}

// GetMindMap loads a room's saved mind-map document. A room with no saved
// document yet returns sql.ErrNoRows; callers substitute the empty document.
func (r *StudyRoomRepository) GetMindMap(ctx context.Context, roomID int64) (models.MindMapDocument, error) {
	var raw []byte
	const query = `SELECT document FROM study_room_mindmaps WHERE room_id = $1`
	if err := r.db.GetContext(ctx, &raw, query, roomID); err != nil {
		return models.MindMapDocument{}, err
	}
	var doc models.MindMapDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return models.MindMapDocument{}, fmt.Errorf("decode mind-map: %w", err)
	}
	return doc, nil
}

// SaveMindMap replaces a room's mind-map document wholesale.
func (r *StudyRoomRepository) SaveMindMap(ctx context.Context, roomID int64, doc models.MindMapDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode mind-map: %w", err)
	}
	const query = `INSERT INTO study_room_mindmaps (room_id, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (room_id) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, roomID, raw); err != nil {
		return fmt.Errorf("save mind-map: %w", err)
	}
	return nil
}
