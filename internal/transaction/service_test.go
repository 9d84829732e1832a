package transaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/transaction"
	util "github.com/finwiselabs/finwise-lambda/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*transaction.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: map[uuid.UUID]*transaction.Transaction{}}
}

func (r *fakeTransactionRepo) ListByUser(userID uuid.UUID, params transaction.ListParams) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	for _, t := range r.transactions {
		if t.UserID != userID {
			continue
		}
		if params.StartDate != nil && t.Date.Before(*params.StartDate) {
			continue
		}
		if params.EndDate != nil && t.Date.After(*params.EndDate) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByIDAndUser(id, userID uuid.UUID) (*transaction.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTransactionRepo) FindByProviderIDAndUser(providerTransactionID string, userID uuid.UUID) (*transaction.Transaction, error) {
	for _, t := range r.transactions {
		if t.UserID == userID && t.ProviderTransactionID == providerTransactionID {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) Create(t *transaction.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	copied := *t
	r.transactions[t.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) Update(t *transaction.Transaction) error {
	copied := *t
	r.transactions[t.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) DeleteByIDAndUser(id, userID uuid.UUID) error {
	delete(r.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) DeleteAllByUser(userID uuid.UUID) error {
	for id, t := range r.transactions {
		if t.UserID == userID {
			delete(r.transactions, id)
		}
	}
	return nil
}

type fakeBankClient struct {
	transactions []bank.Transaction
}

func (c *fakeBankClient) CreateLinkToken(ctx context.Context, userID string) (*bank.LinkToken, error) {
	return &bank.LinkToken{LinkToken: "link-token"}, nil
}

func (c *fakeBankClient) CreateSandboxPublicToken(ctx context.Context) (string, error) {
	return "public-token", nil
}

func (c *fakeBankClient) ExchangePublicToken(ctx context.Context, publicToken string) (*bank.ExchangeResult, error) {
	return &bank.ExchangeResult{ItemID: "item", AccessToken: "access"}, nil
}

func (c *fakeBankClient) FetchAccounts(ctx context.Context, accessToken string) ([]bank.Account, error) {
	return nil, nil
}

func (c *fakeBankClient) FetchTransactions(ctx context.Context, accessToken string, start, end time.Time) ([]bank.Transaction, error) {
	return c.transactions, nil
}

func (c *fakeBankClient) RemoveItem(ctx context.Context, accessToken string) error {
	return nil
}

type fakeBankService struct {
	client *fakeBankClient
}

func (s *fakeBankService) CreateLinkToken(ctx context.Context) (*bank.LinkToken, error) {
	return s.client.CreateLinkToken(ctx, "")
}

func (s *fakeBankService) CreateSandboxPublicToken(ctx context.Context) (string, error) {
	return s.client.CreateSandboxPublicToken(ctx)
}

func (s *fakeBankService) ExchangePublicToken(ctx context.Context, publicToken string) error {
	return nil
}

func (s *fakeBankService) Disconnect(ctx context.Context) error { return nil }

func (s *fakeBankService) Status(ctx context.Context) (*bank.StatusResponse, error) {
	return &bank.StatusResponse{Connected: true}, nil
}

func (s *fakeBankService) AccessTokenForUser(ctx context.Context, userID string) (string, error) {
	return "access-token", nil
}

func (s *fakeBankService) Client() bank.Client { return s.client }

func seedTransaction(t *testing.T, repo *fakeTransactionRepo, userID uuid.UUID, category string, amount float64) uuid.UUID {
	t.Helper()
	tx := transaction.Transaction{
		UserID:                userID,
		ProviderTransactionID: uuid.NewString(),
		AccountID:             "acc-1",
		Name:                  "Seeded",
		Amount:                amount,
		Date:                  util.NewDate(2026, time.August, 1),
		CategoryPrimary:       category,
	}
	require.NoError(t, repo.Create(&tx))
	return tx.ID
}

func newTransactionFixture(txs ...bank.Transaction) (transaction.TransactionService, *fakeTransactionRepo, uuid.UUID, context.Context) {
	repo := newFakeTransactionRepo()
	bankSvc := &fakeBankService{client: &fakeBankClient{transactions: txs}}
	service := transaction.NewService(repo, bankSvc)

	userID := uuid.New()
	ctx := auth.ContextWithClaims(context.Background(), &auth.UserClaims{
		UserID: userID.String(),
		Email:  "user@example.com",
	})
	return service, repo, userID, ctx
}

func TestSummary(t *testing.T) {
	service, repo, userID, ctx := newTransactionFixture()
	seedTransaction(t, repo, userID, "INCOME", -2000)
	seedTransaction(t, repo, userID, "FOOD_AND_DRINK", -150)
	seedTransaction(t, repo, userID, "TRANSFER_IN", 50)

	summary, err := service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalCount)
	assert.Equal(t, 2000.0, summary.TotalIncome)
	assert.Equal(t, -150.0, summary.TotalExpenses)
	assert.Equal(t, 1850.0, summary.NetBalance)
}

func TestByType(t *testing.T) {
	service, repo, userID, ctx := newTransactionFixture()
	seedTransaction(t, repo, userID, "INCOME", -2000)
	seedTransaction(t, repo, userID, "FOOD_AND_DRINK", -150)
	seedTransaction(t, repo, userID, "FOOD_AND_DRINK", 25)

	t.Run("ExpensesKeepsNegativeNonIncome", func(t *testing.T) {
		resp, err := service.ByType(ctx, "expenses")
		require.NoError(t, err)
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, -150.0, resp.Transactions[0].Amount)
	})

	t.Run("ExactCategoryMatch", func(t *testing.T) {
		resp, err := service.ByType(ctx, "FOOD_AND_DRINK")
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("AllReturnsEverything", func(t *testing.T) {
		resp, err := service.ByType(ctx, "all")
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
	})
}

func TestSyncUpserts(t *testing.T) {
	provided := []bank.Transaction{
		{
			ProviderTransactionID: "tx-1",
			ProviderAccountID:     "acc-1",
			Name:                  "Coffee",
			Amount:                -4.5,
			Date:                  util.NewDate(2026, time.August, 10),
			CategoryPrimary:       "FOOD_AND_DRINK",
			Categories:            []string{"FOOD_AND_DRINK", "COFFEE"},
		},
		{
			ProviderTransactionID: "tx-2",
			ProviderAccountID:     "acc-1",
			Name:                  "Paycheck",
			Amount:                -2500,
			Date:                  util.NewDate(2026, time.August, 15),
			CategoryPrimary:       "INCOME",
		},
	}
	service, repo, userID, ctx := newTransactionFixture(provided...)

	resp, err := service.Sync(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SyncedCount)

	existing, err := repo.FindByProviderIDAndUser("tx-1", userID)
	require.NoError(t, err)
	require.NotNil(t, existing)
	assert.Equal(t, "Coffee", existing.Name)

	// A second sync updates in place instead of duplicating.
	resp, err = service.Sync(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SyncedCount)
	all, err := repo.ListByUser(userID, transaction.ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSyncRejectsInvertedWindow(t *testing.T) {
	service, _, _, ctx := newTransactionFixture()

	_, err := service.Sync(ctx, "2026-08-20", "2026-08-01")
	assert.ErrorIs(t, err, transaction.ErrInvalidDateRange)
}

func TestListValidatesDateRange(t *testing.T) {
	service, _, _, ctx := newTransactionFixture()

	start := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.List(ctx, transaction.ListParams{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, transaction.ErrInvalidDateRange)
}

func TestDelete(t *testing.T) {
	service, repo, userID, ctx := newTransactionFixture()
	id := seedTransaction(t, repo, userID, "FOOD_AND_DRINK", -10)

	require.NoError(t, service.Delete(ctx, id.String()))

	_, err := service.Get(ctx, id.String())
	assert.ErrorIs(t, err, transaction.ErrTransactionNotFound)
}
