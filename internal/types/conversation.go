package types

import (
	"time"
)

// Conversation groups every message exchanged between an unordered pair of
// addresses. ParticipantA/B keep the order the creating caller supplied
// (historically "from" then "to"); PairKey is the canonicalized form the
// store enforces uniqueness on, so (A,B) and (B,A) resolve to one row.
type Conversation struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ParticipantA string    `gorm:"index;column:participant_a" json:"participant_a"`
	ParticipantB string    `gorm:"index;column:participant_b" json:"participant_b"`
	PairKey      string    `gorm:"uniqueIndex;not null;column:pair_key" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversation"
}

// PairKeyFor canonicalizes an unordered address pair. The unit separator
// cannot appear in a phone number or email address, so distinct pairs never
// collide.
func PairKeyFor(addrX, addrY string) string {
	if addrX > addrY {
		addrX, addrY = addrY, addrX
	}
	return addrX + "\x1f" + addrY
}
