package journal

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one append-only turn. Emotion and Color are set on ai rows only.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	Role           Role      `gorm:"size:10;not null" json:"role"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Emotion        *string   `gorm:"size:20" json:"emotion,omitempty"`
	Color          *string   `gorm:"size:20" json:"color,omitempty"`
	Timestamp      time.Time `gorm:"not null;index" json:"timestamp"`
}

func (Message) TableName() string {
	return "message"
}
