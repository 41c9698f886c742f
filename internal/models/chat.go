package models

// ChatMessage is one entry in a library's chat channel, stored on the
// external realtime store and ordered by its timestamp.
type ChatMessage struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
