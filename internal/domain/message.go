package domain

import "time"

// Message content kinds.
const (
	MessageKindText = "TEXT"
	MessageKindFile = "FILE"
)

// Message is a direct message between two users. Rows are created once on
// send and mutated only to flip the read flag; they are never deleted here.
type Message struct {
	ID         string     `json:"id" gorm:"primaryKey;size:36"`
	SenderID   string     `json:"sender_id" gorm:"index;size:36;not null"`
	ReceiverID string     `json:"receiver_id" gorm:"index;size:36;not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	Kind       string     `json:"kind" gorm:"size:8;not null;default:TEXT"`
	FileURL    *string    `json:"file_url,omitempty" gorm:"size:512"`
	IsRead     bool       `json:"is_read" gorm:"not null;default:false"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`

	// Resolved identity summaries, populated by the service layer.
	Sender   *UserSummary `json:"sender,omitempty" gorm:"-"`
	Receiver *UserSummary `json:"receiver,omitempty" gorm:"-"`
}

func (Message) TableName() string { return "messages" }

// Conversation is a read-time projection: one entry per counterpart the user
// has exchanged messages with. It is never stored.
type Conversation struct {
	UserID      string       `json:"user_id"`
	User        *UserSummary `json:"user"`
	LastMessage *Message     `json:"last_message"`
	UnreadCount int          `json:"unread_count"`
}
