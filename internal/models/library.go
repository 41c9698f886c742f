package models

// Library is the root of rooms and operating hours.
type Library struct {
	LibraryID int64  `db:"library_id" json:"library_id"`
	Name      string `db:"name" json:"name"`
	Location  string `db:"location" json:"location"`
	Type      string `db:"type" json:"type"`
}

// Room groups seats inside a library.
type Room struct {
	RoomID    int64  `db:"room_id" json:"room_id"`
	LibraryID int64  `db:"library_id" json:"-"`
	Name      string `db:"name" json:"name"`
	RoomType  string `db:"room_type" json:"room_type"`
}

// Seat is a bookable place inside a room. A seat with is_computer set is
// exposed through the computers endpoints as well; same row, filtered view.
type Seat struct {
	SeatID     int64  `db:"seat_id" json:"seat_id"`
	RoomID     int64  `db:"room_id" json:"room_id"`
	Identifier string `db:"identifier" json:"identifier"`
	IsComputer bool   `db:"is_computer" json:"is_computer"`
	IsActive   bool   `db:"is_active" json:"is_active"`
	IsOccupied bool   `db:"is_occupied" json:"is_occupied"`
	Specs      string `db:"specs" json:"specs,omitempty"`
}

// Computer is the computer-flavored projection of a Seat.
type Computer struct {
	ComputerID int64  `json:"computer_id"`
	Identifier string `json:"identifier"`
	Specs      string `json:"specs"`
	IsActive   bool   `json:"is_active"`
	IsOccupied bool   `json:"is_occupied"`
	RoomID     int64  `json:"room_id"`
}

// ComputerView converts a seat row into its computer projection.
func (s Seat) ComputerView() Computer {
	return Computer{
		ComputerID: s.SeatID,
		Identifier: s.Identifier,
		Specs:      s.Specs,
		IsActive:   s.IsActive,
		IsOccupied: s.IsOccupied,
		RoomID:     s.RoomID,
	}
}

// SeatFilter narrows seat availability listings.
type SeatFilter struct {
	LibraryID  int64
	RoomID     *int64
	IsComputer *bool
	ActiveOnly bool
}

// SeatPatch carries optional seat updates; nil fields are left untouched.
type SeatPatch struct {
	Identifier *string `json:"identifier"`
	Specs      *string `json:"specs"`
	IsComputer *bool   `json:"is_computer"`
	IsActive   *bool   `json:"is_active"`
	IsOccupied *bool   `json:"is_occupied"`
	RoomID     *int64  `json:"room_id"`
}

// Weekdays are the only accepted operating-hour day labels.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// ValidWeekday reports whether day is a known 3-letter weekday label.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// OperatingTime is one (library, weekday) opening-hours record. Times are
// HH:MM 24-hour wall-clock strings.
type OperatingTime struct {
	OperatingTimeID int64  `db:"operating_time_id" json:"-"`
	LibraryID       int64  `db:"library_id" json:"library_id"`
	Weekday         string `db:"weekday" json:"weekday"`
	OpenTime        string `db:"open_time" json:"open_time"`
	CloseTime       string `db:"close_time" json:"close_time"`
}
