package chat

import "time"

// Turn is one conversation entry. Timestamps are opaque client-side strings
// for caller-supplied history; server-added turns use RFC 3339.
type Turn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Session is one persisted chat transcript, keyed by a client-chosen opaque
// session id. Every save fully overwrites the transcript; MessageCount always
// equals the length of the stored conversation.
type Session struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID        string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"session_id"`
	UserIP           string    `gorm:"type:varchar(64)" json:"user_ip"`
	SelectedGpus     string    `gorm:"type:text" json:"selected_gpus"`
	ConversationData string    `gorm:"type:text" json:"conversation_data"`
	MessageCount     int       `json:"message_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "chat_sessions" }
