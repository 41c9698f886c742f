package models

import "time"

// AppointmentStatus enumerates appointment lifecycle states.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentCompleted AppointmentStatus = "completed"
)

// ValidAppointmentStatus reports whether s is a known status value.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Appointment is a librarian consultation slot. Windows are half-open
// [start, end); no two non-cancelled appointments for the same librarian
// may overlap.
type Appointment struct {
	AppointmentID   int64             `db:"appointment_id" json:"appointment_id"`
	UserID          int64             `db:"user_id" json:"user_id"`
	LibrarianUserID int64             `db:"librarian_user_id" json:"librarian_user_id"`
	LibraryID       int64             `db:"library_id" json:"library_id"`
	StartDatetime   time.Time         `db:"start_datetime" json:"start_datetime"`
	EndDatetime     time.Time         `db:"end_datetime" json:"end_datetime"`
	Status          AppointmentStatus `db:"status" json:"status"`
	Notes           string            `db:"notes" json:"notes,omitempty"`
}

// AppointmentFilter narrows appointment listings.
type AppointmentFilter struct {
	UserID      *int64
	LibrarianID *int64
}
