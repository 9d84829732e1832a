package account

import (
	"time"

	"github.com/google/uuid"
)

// Balances mirrors the provider wire shape: current is always present,
// available may be null for account types that do not report it.
type Balances struct {
	Current   float64  `gorm:"column:current_balance" json:"current"`
	Available *float64 `gorm:"column:available_balance" json:"available"`
}

type Account struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ProviderAccountID string    `gorm:"not null;index" json:"plaid_account_id"`
	Name              string    `gorm:"not null" json:"name"`
	OfficialName      string    `json:"official_name,omitempty"`
	Mask              string    `json:"mask,omitempty"`
	Type              string    `json:"type"`
	Subtype           string    `json:"subtype,omitempty"`
	Balances          Balances  `gorm:"embedded" json:"balances"`
	ISOCurrencyCode   string    `json:"iso_currency_code,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AvailableBalance resolves the spendable balance the way the dashboard
// does: the available figure when the provider reports one, else zero.
func (a *Account) AvailableBalance() float64 {
	if a.Balances.Available != nil {
		return *a.Balances.Available
	}
	return 0
}
