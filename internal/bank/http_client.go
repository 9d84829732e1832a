package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/config"
	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"golang.org/x/oauth2/clientcredentials"
)

// httpClient talks to the aggregator REST API. API calls are authenticated
// with a client-credentials token source that refreshes itself.
type httpClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL, clientID, clientSecret, tokenURL string) Client {
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return &httpClient{
		baseURL: baseURL,
		http:    cc.Client(context.Background()),
	}
}

func (c *httpClient) post(ctx context.Context, path string, body, out any) error {
	log := config.WithContext(ctx)

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Errorf("Bank provider request to %s failed", path)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("bank provider returned status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *httpClient) CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	var out LinkToken
	body := map[string]any{
		"user":          map[string]string{"client_user_id": userID},
		"client_name":   "Finwise",
		"products":      []string{"auth", "transactions"},
		"language":      "en",
		"country_codes": []string{"US"},
	}
	if err := c.post(ctx, "/link/token/create", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) CreateSandboxPublicToken(ctx context.Context) (string, error) {
	var out struct {
		PublicToken string `json:"public_token"`
	}
	body := map[string]any{
		"institution_id":   "ins_109508",
		"initial_products": []string{"transactions"},
	}
	if err := c.post(ctx, "/sandbox/public_token/create", body, &out); err != nil {
		return "", err
	}
	return out.PublicToken, nil
}

func (c *httpClient) ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error) {
	var out ExchangeResult
	body := map[string]string{"public_token": publicToken}
	if err := c.post(ctx, "/item/public_token/exchange", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) FetchAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	var out struct {
		Accounts []struct {
			AccountID    string `json:"account_id"`
			Name         string `json:"name"`
			OfficialName string `json:"official_name"`
			Mask         string `json:"mask"`
			Type         string `json:"type"`
			Subtype      string `json:"subtype"`
			Balances     struct {
				Current         float64  `json:"current"`
				Available       *float64 `json:"available"`
				ISOCurrencyCode string   `json:"iso_currency_code"`
			} `json:"balances"`
		} `json:"accounts"`
	}
	body := map[string]string{"access_token": accessToken}
	if err := c.post(ctx, "/accounts/balance/get", body, &out); err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(out.Accounts))
	for _, a := range out.Accounts {
		accounts = append(accounts, Account{
			ProviderAccountID: a.AccountID,
			Name:              a.Name,
			OfficialName:      a.OfficialName,
			Mask:              a.Mask,
			Type:              a.Type,
			Subtype:           a.Subtype,
			CurrentBalance:    a.Balances.Current,
			AvailableBalance:  a.Balances.Available,
			ISOCurrencyCode:   a.Balances.ISOCurrencyCode,
		})
	}
	return accounts, nil
}

func (c *httpClient) FetchTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]Transaction, error) {
	var out struct {
		Transactions []struct {
			TransactionID   string   `json:"transaction_id"`
			AccountID       string   `json:"account_id"`
			Name            string   `json:"name"`
			MerchantName    string   `json:"merchant_name"`
			Amount          float64  `json:"amount"`
			Date            string   `json:"date"`
			Pending         bool     `json:"pending"`
			PaymentChannel  string   `json:"payment_channel"`
			Category        []string `json:"category"`
			ISOCurrencyCode string   `json:"iso_currency_code"`
		} `json:"transactions"`
	}
	body := map[string]string{
		"access_token": accessToken,
		"start_date":   start.Format("2006-01-02"),
		"end_date":     end.Format("2006-01-02"),
	}
	if err := c.post(ctx, "/transactions/get", body, &out); err != nil {
		return nil, err
	}

	txs := make([]Transaction, 0, len(out.Transactions))
	for _, t := range out.Transactions {
		date, err := util.ParseDate(t.Date)
		if err != nil {
			continue
		}
		primary := ""
		if len(t.Category) > 0 {
			primary = t.Category[0]
		}
		txs = append(txs, Transaction{
			ProviderTransactionID: t.TransactionID,
			ProviderAccountID:     t.AccountID,
			Name:                  t.Name,
			MerchantName:          t.MerchantName,
			Amount:                t.Amount,
			Date:                  date,
			Pending:               t.Pending,
			PaymentChannel:        t.PaymentChannel,
			CategoryPrimary:       primary,
			Categories:            t.Category,
			ISOCurrencyCode:       t.ISOCurrencyCode,
		})
	}
	return txs, nil
}

func (c *httpClient) RemoveItem(ctx context.Context, accessToken string) error {
	body := map[string]string{"access_token": accessToken}
	return c.post(ctx, "/item/remove", body, nil)
}
