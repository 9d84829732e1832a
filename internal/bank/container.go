package bank

import (
	"os"

	"github.com/finwiselabs/finwise-lambda/internal/user"
)

type BankContainer struct {
	Service BankService
	Client  Client
}

// NewBankContainer selects the provider client from the environment: the
// HTTP client when real credentials are configured, the sandbox otherwise.
func NewBankContainer(userRepo user.UserRepository, userService user.UserService) *BankContainer {
	var client Client

	clientID := os.Getenv("BANK_CLIENT_ID")
	clientSecret := os.Getenv("BANK_CLIENT_SECRET")
	baseURL := os.Getenv("BANK_API_URL")
	tokenURL := os.Getenv("BANK_TOKEN_URL")

	if clientID != "" && clientSecret != "" && baseURL != "" {
		client = NewHTTPClient(baseURL, clientID, clientSecret, tokenURL)
	} else {
		client = NewSandboxClient()
	}

	service := NewService(client, userRepo, userService)

	return &BankContainer{
		Service: service,
		Client:  client,
	}
}

// NewHandlerFor wires the handler once the account and transaction syncers
// exist; they depend on this container's service, so construction is split.
func (c *BankContainer) NewHandlerFor(accounts AccountSyncer, transactions TransactionSyncer) *Handler {
	return NewHandler(c.Service, accounts, transactions)
}
