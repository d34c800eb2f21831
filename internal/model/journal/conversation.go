package journal

// Conversation groups the ordered messages of one journaling session.
type Conversation struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   string    `gorm:"size:36;not null" json:"userId"`
	Messages []Message `gorm:"foreignKey:ConversationID" json:"-"`
}

func (Conversation) TableName() string {
	return "conversation"
}
