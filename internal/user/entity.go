package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	// Bank provider credentials, AES-GCM encrypted with the config crypto key.
	EncryptedBankItemID     string     `json:"-"`
	EncryptedBankAccessToken string    `json:"-"`
	BankConnectedAt         *time.Time `json:"bank_connected_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
