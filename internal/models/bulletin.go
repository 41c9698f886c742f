package models

import "time"

// Announcement is a public notice. Deletion is a hard delete.
type Announcement struct {
	AnnouncementID int64     `db:"announcement_id" json:"id"`
	Title          string    `db:"title" json:"title"`
	Body           string    `db:"body" json:"body"`
	PostedAt       time.Time `db:"posted_at" json:"posted_at"`
	IsActive       bool      `db:"is_active" json:"-"`
}

// PurchaseStatus enumerates acquisition request states.
type PurchaseStatus string

const (
	PurchaseOpen     PurchaseStatus = "open"
	PurchaseOrdered  PurchaseStatus = "ordered"
	PurchaseDeclined PurchaseStatus = "declined"
	PurchaseReceived PurchaseStatus = "received"
)

// PurchaseRequest asks the library to acquire a title.
type PurchaseRequest struct {
	RequestID     int64          `db:"request_id" json:"request_id"`
	UserID        int64          `db:"user_id" json:"user_id"`
	Title         string         `db:"title" json:"title"`
	Author        string         `db:"author" json:"author"`
	ISBN          *string        `db:"isbn" json:"isbn,omitempty"`
	Justification string         `db:"justification" json:"justification"`
	Status        PurchaseStatus `db:"status" json:"status"`
	RequestedAt   time.Time      `db:"requested_at" json:"requested_at"`
}

// RecommendationStatus enumerates feedback review states.
type RecommendationStatus string

const (
	RecommendationNew         RecommendationStatus = "new"
	RecommendationReviewed    RecommendationStatus = "reviewed"
	RecommendationImplemented RecommendationStatus = "implemented"
	RecommendationRejected    RecommendationStatus = "rejected"
)

// Recommendation is free-form user feedback grouped by category.
type Recommendation struct {
	RecID       int64                `db:"rec_id" json:"rec_id"`
	UserID      int64                `db:"user_id" json:"user_id"`
	Category    string               `db:"category" json:"category"`
	Content     string               `db:"content" json:"content"`
	SubmittedAt time.Time            `db:"submitted_at" json:"submitted_at"`
	Status      RecommendationStatus `db:"status" json:"status"`
}
