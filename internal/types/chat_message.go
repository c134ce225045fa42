package types

import "time"

type SenderType string

const (
	SenderUser       SenderType = "user"
	SenderAIAgent    SenderType = "ai_agent"
	SenderHumanAgent SenderType = "human_agent"
)

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
)

// ChatMessage is an append-only log row. The autoincrement ID tie-breaks
// messages that share a timestamp, so history replay always equals insertion
// order.
type ChatMessage struct {
	ID          uint64      `gorm:"primaryKey" json:"-"`
	MessageID   string      `gorm:"type:varchar(64);uniqueIndex;not null;column:message_id" json:"messageId"`
	TicketID    string      `gorm:"type:varchar(64);index;not null;column:ticket_id" json:"ticketId"`
	SenderType  SenderType  `gorm:"type:varchar(32);not null;column:sender_type" json:"senderType"`
	SenderID    string      `gorm:"type:varchar(64);not null;column:sender_id" json:"senderId"`
	SenderName  string      `gorm:"column:sender_name" json:"senderName,omitempty"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	MessageType MessageType `gorm:"type:varchar(16);not null;column:message_type" json:"messageType"`
	Timestamp   time.Time   `gorm:"index;not null" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
