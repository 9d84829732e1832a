package chat

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage stores one exchange: the user's message and the assistant's
// reply. SelectedAccountID records which account the question was scoped
// to, if any.
type ChatMessage struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Message           string     `gorm:"not null" json:"message"`
	Response          string     `gorm:"not null" json:"response"`
	SelectedAccountID *uuid.UUID `gorm:"type:uuid" json:"selected_account_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
