package transaction

import (
	"time"

	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transaction stores a provider transaction. AccountID keeps the provider's
// account id string so the dashboard can join transactions to accounts by
// the same key the provider uses.
type Transaction struct {
	ID                    uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID                uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ProviderTransactionID string         `gorm:"not null;uniqueIndex" json:"plaid_transaction_id"`
	AccountID             string         `gorm:"not null;index" json:"account_id"`
	Name                  string         `gorm:"not null" json:"name"`
	MerchantName          string         `json:"merchant_name,omitempty"`
	Amount                float64        `json:"amount"`
	Date                  util.Date      `gorm:"type:date" json:"date"`
	Pending               bool           `json:"pending"`
	PaymentChannel        string         `json:"payment_channel,omitempty"`
	CategoryPrimary       string         `gorm:"index" json:"category_primary,omitempty"`
	Categories            datatypes.JSON `json:"categories,omitempty"`
	ISOCurrencyCode       string         `json:"iso_currency_code,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}
