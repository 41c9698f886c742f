package models

import (
	"encoding/json"
	"time"
)

// StudyRoom is a collaboration space created by a user.
type StudyRoom struct {
	RoomID      int64     `db:"room_id" json:"room_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Subject     string    `db:"subject" json:"subject"`
	Capacity    int       `db:"capacity" json:"capacity"`
	CreatedBy   int64     `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	IsActive    bool      `db:"is_active" json:"-"`
}

// StudyRoomListing is a room plus its approved member count.
type StudyRoomListing struct {
	StudyRoom
	MemberCount int `db:"member_count" json:"member_count"`
}

// MembershipStatus enumerates study-room membership states.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipApproved MembershipStatus = "approved"
	MembershipRejected MembershipStatus = "rejected"
)

// ValidMembershipStatus reports whether s is a known status value.
func ValidMembershipStatus(s MembershipStatus) bool {
	switch s {
	case MembershipPending, MembershipApproved, MembershipRejected:
		return true
	}
	return false
}

// StudyRoomMember is a (room, user) pair, unique per pair. Only approved
// membership grants access to a room's sub-resources.
type StudyRoomMember struct {
	MemberID      int64            `db:"member_id" json:"-"`
	RoomID        int64            `db:"room_id" json:"room_id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	StudentNumber *string          `db:"student_number" json:"student_number"`
	StudentEmail  *string          `db:"student_email" json:"student_email"`
	Status        MembershipStatus `db:"status" json:"status"`
	JoinedAt      *time.Time       `db:"joined_at" json:"joined_at"`
}

// StudyRoomMemberDetail joins a membership row with its user's display name.
type StudyRoomMemberDetail struct {
	StudyRoomMember
	UserName string `db:"user_name" json:"name"`
}

// StudyRoomMedia is an uploaded file owned by a room and an uploading user.
// The bytes live on the media store; only the path is persisted.
type StudyRoomMedia struct {
	MediaID    int64     `db:"media_id" json:"media_id"`
	RoomID     int64     `db:"room_id" json:"-"`
	UserID     int64     `db:"user_id" json:"user_id"`
	FileName   string    `db:"file_name" json:"file_name"`
	FileType   string    `db:"file_type" json:"file_type"`
	FilePath   string    `db:"file_path" json:"-"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// StudyRoomMediaDetail joins a media row with the uploader's display name.
type StudyRoomMediaDetail struct {
	StudyRoomMedia
	UserName string `db:"user_name" json:"user_name"`
}

// MindMapDocument is the whole shared document for one room; it is replaced
// wholesale on each save.
type MindMapDocument struct {
	Nodes       []json.RawMessage `json:"nodes"`
	Connections []json.RawMessage `json:"connections"`
}

// EmptyMindMap is the zero document returned when a room has no saved
// mind-map yet.
func EmptyMindMap() MindMapDocument {
	return MindMapDocument{Nodes: []json.RawMessage{}, Connections: []json.RawMessage{}}
}
