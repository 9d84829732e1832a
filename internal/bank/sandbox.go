package bank

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"github.com/google/uuid"
)

// sandboxClient fabricates deterministic provider data so the dashboard can
// be exercised without provider credentials. The same access token always
// yields the same accounts and transactions.
type sandboxClient struct{}

func NewSandboxClient() Client {
	return &sandboxClient{}
}

func (c *sandboxClient) CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	return &LinkToken{
		LinkToken:  "link-sandbox-" + uuid.NewString(),
		Expiration: time.Now().Add(4 * time.Hour),
	}, nil
}

func (c *sandboxClient) CreateSandboxPublicToken(ctx context.Context) (string, error) {
	return "public-sandbox-" + uuid.NewString(), nil
}

func (c *sandboxClient) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	if publicToken == "" {
		return nil, fmt.Errorf("public token is empty")
	}
	return &ExchangeResult{
		ItemID:      "item-sandbox-" + uuid.NewString(),
		AccessToken: "access-sandbox-" + uuid.NewString(),
	}, nil
}

func (c *sandboxClient) FetchAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	rng := seededRand(accessToken)

	checkingAvailable := round2(1200 + rng.Float64()*4000)
	savingsAvailable := round2(5000 + rng.Float64()*20000)

	return []Account{
		{
			ProviderAccountID: sandboxID(accessToken, "checking"),
			Name:              "Sandbox Checking",
			OfficialName:      "Sandbox Standard 0% Interest Checking",
			Mask:              "0000",
			Type:              "depository",
			Subtype:           "checking",
			CurrentBalance:    round2(checkingAvailable + 110.5),
			AvailableBalance:  &checkingAvailable,
			ISOCurrencyCode:   "USD",
		},
		{
			ProviderAccountID: sandboxID(accessToken, "savings"),
			Name:              "Sandbox Savings",
			OfficialName:      "Sandbox Silver Standard 0.1% Interest Saving",
			Mask:              "1111",
			Type:              "depository",
			Subtype:           "savings",
			CurrentBalance:    savingsAvailable,
			AvailableBalance:  &savingsAvailable,
			ISOCurrencyCode:   "USD",
		},
		{
			ProviderAccountID: sandboxID(accessToken, "credit"),
			Name:              "Sandbox Credit Card",
			OfficialName:      "Sandbox Diamond 12.5% APR Interest Credit Card",
			Mask:              "3333",
			Type:              "credit",
			Subtype:           "credit card",
			CurrentBalance:    round2(-410 - rng.Float64()*900),
			AvailableBalance:  nil,
			ISOCurrencyCode:   "USD",
		},
	}, nil
}

var sandboxMerchants = []struct {
	name     string
	category string
	channel  string
	min, max float64
}{
	{"Uber", "TRANSPORTATION", "online", -35, -8},
	{"McDonald's", "FOOD_AND_DRINK", "in store", -25, -6},
	{"Starbucks", "FOOD_AND_DRINK", "in store", -12, -4},
	{"SparkFun", "GENERAL_MERCHANDISE", "online", -120, -15},
	{"United Airlines", "TRAVEL", "online", -600, -120},
	{"ACH Electronic CreditGUSTO PAY 123456", "INCOME", "other", 1800, 3200},
	{"CD DEPOSIT .INITIAL.", "TRANSFER_IN", "other", 500, 1500},
	{"Madison Bicycle Shop", "GENERAL_MERCHANDISE", "in store", -90, -20},
}

func (c *sandboxClient) FetchTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]Transaction, error) {
	rng := seededRand(accessToken + "tx")

	accountIDs := []string{
		sandboxID(accessToken, "checking"),
		sandboxID(accessToken, "credit"),
	}

	var txs []Transaction
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		n := rng.Intn(3)
		for i := 0; i < n; i++ {
			m := sandboxMerchants[rng.Intn(len(sandboxMerchants))]
			amount := round2(m.min + rng.Float64()*(m.max-m.min))
			txs = append(txs, Transaction{
				ProviderTransactionID: fmt.Sprintf("%s-%s-%d", sandboxID(accessToken, "tx"), day.Format("20060102"), i),
				ProviderAccountID:     accountIDs[rng.Intn(len(accountIDs))],
				Name:                  m.name,
				MerchantName:          m.name,
				Amount:                amount,
				Date:                  util.Date{Time: day},
				Pending:               false,
				PaymentChannel:        m.channel,
				CategoryPrimary:       m.category,
				Categories:            []string{m.category},
				ISOCurrencyCode:       "USD",
			})
		}
	}
	return txs, nil
}

func (c *sandboxClient) RemoveItem(ctx context.Context, accessToken string) error {
	return nil
}

func seededRand(s string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(s))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func sandboxID(accessToken, suffix string) string {
	h := fnv.New64a()
	h.Write([]byte(accessToken + suffix))
	return fmt.Sprintf("sbx-%x", h.Sum64())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
