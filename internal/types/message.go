package types

import (
	"time"

	"gorm.io/datatypes"
)

// Message is an immutable ledger entry belonging to exactly one conversation.
// ChannelType is an open string tag: outbound senders use "sms"/"mms"/"email",
// inbound webhooks pass whatever the provider reported, verbatim.
// Attachments holds a JSON-encoded ordered list of opaque reference URLs.
type Message struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint           `gorm:"index;not null;column:conversation_id" json:"conversation_id"`
	FromAddr       string         `gorm:"index;column:from_addr" json:"from"`
	ToAddr         string         `gorm:"index;column:to_addr" json:"to"`
	ChannelType    string         `gorm:"index;column:type" json:"type"`
	ProviderID     *string        `gorm:"index;column:provider_id" json:"provider_id"`
	Body           string         `gorm:"type:text" json:"body"`
	Attachments    datatypes.JSON `gorm:"column:attachments" json:"attachments"`
	Timestamp      time.Time      `gorm:"index;not null" json:"timestamp"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
}

func (Message) TableName() string {
	return "message"
}
