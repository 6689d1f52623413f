package domain

import "time"

// Notification categories.
const (
	NotificationInfo    = "INFO"
	NotificationWarning = "WARNING"
	NotificationSuccess = "SUCCESS"
)

// Notification is a durable per-user notice. One is created for the receiver
// of every persisted message; its read flag is independent of the message's.
type Notification struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	UserID    string     `json:"user_id" gorm:"index;size:36;not null"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Message   string     `json:"message" gorm:"type:text;not null"`
	Type      string     `json:"type" gorm:"size:16;not null;default:INFO"`
	IsRead    bool       `json:"is_read" gorm:"not null;default:false"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }
