package bank

import (
	"context"
	"time"

	util "github.com/finwiselabs/finwise-lambda/internal/utils"
)

type LinkToken struct {
	LinkToken  string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
}

type ExchangeResult struct {
	ItemID      string `json:"item_id"`
	AccessToken string `json:"access_token"`
}

// Account is the provider-side account record before it is persisted.
type Account struct {
	ProviderAccountID string
	Name              string
	OfficialName      string
	Mask              string
	Type              string
	Subtype           string
	CurrentBalance    float64
	AvailableBalance  *float64
	ISOCurrencyCode   string
}

// Transaction is the provider-side transaction record.
type Transaction struct {
	ProviderTransactionID string
	ProviderAccountID     string
	Name                  string
	MerchantName          string
	Amount                float64
	Date                  util.Date
	Pending               bool
	PaymentChannel        string
	CategoryPrimary       string
	Categories            []string
	ISOCurrencyCode       string
}

// Client talks to the bank data aggregator. The sandbox implementation
// serves development and tests; the HTTP implementation talks to the real
// provider API.
type Client interface {
	CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error)
	CreateSandboxPublicToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	FetchAccounts(ctx context.Context, accessToken string) ([]Account, error)
	FetchTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]Transaction, error)
	RemoveItem(ctx context.Context, accessToken string) error
}
