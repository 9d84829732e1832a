package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidID           = errors.New("invalid id format")
	ErrInvalidDateRange    = errors.New("start date cannot be after end date")
)

// categoryIncome is the provider's primary category for inflows. The
// "expenses" pseudo-type filters everything else with a negative amount.
const categoryIncome = "INCOME"

const defaultSyncWindow = 30 * 24 * time.Hour

type TransactionService interface {
	List(ctx context.Context, params ListParams) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	ByType(ctx context.Context, txType string) (*ListResponse, error)
	Summary(ctx context.Context) (*SummaryResponse, error)
	Sync(ctx context.Context, startDate, endDate string) (*SyncResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	// SyncForUser is the bank.TransactionSyncer implementation used right
	// after a token exchange.
	SyncForUser(ctx context.Context, userID, startDate, endDate string) (int, error)
}

type transactionService struct {
	repo TransactionRepository
	bank bank.BankService
}

func NewService(repo TransactionRepository, bankService bank.BankService) TransactionService {
	return &transactionService{repo: repo, bank: bankService}
}

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func (s *transactionService) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if params.StartDate != nil && params.EndDate != nil && params.StartDate.After(*params.EndDate) {
		return nil, ErrInvalidDateRange
	}

	transactions, err := s.repo.ListByUser(userID, params)
	if err != nil {
		log.WithError(err).Error("Failed to list transactions")
		return nil, err
	}

	return &ListResponse{Transactions: transactions, Total: len(transactions)}, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*Transaction, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	t, err := s.repo.FindByIDAndUser(txID, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	return t, nil
}

// ByType filters by primary category. The special type "expenses" keeps
// non-income transactions with negative amounts; any other value matches
// category_primary verbatim.
func (s *transactionService) ByType(ctx context.Context, txType string) (*ListResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListByUser(userID, ListParams{})
	if err != nil {
		return nil, err
	}

	filtered := make([]Transaction, 0, len(all))
	for _, t := range all {
		switch txType {
		case "all", "":
			filtered = append(filtered, t)
		case "expenses":
			if t.CategoryPrimary != categoryIncome && t.Amount < 0 {
				filtered = append(filtered, t)
			}
		default:
			if t.CategoryPrimary == txType {
				filtered = append(filtered, t)
			}
		}
	}

	return &ListResponse{Transactions: filtered, Total: len(filtered)}, nil
}

func (s *transactionService) Summary(ctx context.Context) (*SummaryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListByUser(userID, ListParams{})
	if err != nil {
		return nil, err
	}

	summary := SummaryResponse{TotalCount: len(all)}
	for _, t := range all {
		if t.CategoryPrimary == categoryIncome {
			summary.TotalIncome += math.Abs(t.Amount)
		} else if t.Amount < 0 {
			summary.TotalExpenses += t.Amount
		}
	}
	summary.NetBalance = summary.TotalIncome + summary.TotalExpenses
	return &summary, nil
}

func (s *transactionService) Sync(ctx context.Context, startDate, endDate string) (*SyncResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.SyncForUser(ctx, userID.String(), startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &SyncResponse{SyncedCount: count}, nil
}

func (s *transactionService) SyncForUser(ctx context.Context, userID, startDate, endDate string) (int, error) {
	log := config.WithContext(ctx)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, ErrInvalidID
	}

	start, end, err := resolveSyncWindow(startDate, endDate)
	if err != nil {
		return 0, err
	}

	accessToken, err := s.bank.AccessTokenForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	providerTxs, err := s.bank.Client().FetchTransactions(ctx, accessToken, start, end)
	if err != nil {
		log.WithError(err).Error("Failed to fetch transactions from provider")
		return 0, err
	}

	synced := 0
	for _, pt := range providerTxs {
		existing, err := s.repo.FindByProviderIDAndUser(pt.ProviderTransactionID, uid)
		if err != nil {
			return synced, err
		}

		categories, err := json.Marshal(pt.Categories)
		if err != nil {
			return synced, err
		}

		if existing == nil {
			t := Transaction{
				UserID:                uid,
				ProviderTransactionID: pt.ProviderTransactionID,
				AccountID:             pt.ProviderAccountID,
				Name:                  pt.Name,
				MerchantName:          pt.MerchantName,
				Amount:                pt.Amount,
				Date:                  pt.Date,
				Pending:               pt.Pending,
				PaymentChannel:        pt.PaymentChannel,
				CategoryPrimary:       pt.CategoryPrimary,
				Categories:            categories,
				ISOCurrencyCode:       pt.ISOCurrencyCode,
			}
			if err := s.repo.Create(&t); err != nil {
				log.WithError(err).Error("Failed to create synced transaction")
				return synced, err
			}
		} else {
			existing.Name = pt.Name
			existing.MerchantName = pt.MerchantName
			existing.Amount = pt.Amount
			existing.Date = pt.Date
			existing.Pending = pt.Pending
			existing.PaymentChannel = pt.PaymentChannel
			existing.CategoryPrimary = pt.CategoryPrimary
			existing.Categories = categories
			existing.ISOCurrencyCode = pt.ISOCurrencyCode
			if err := s.repo.Update(existing); err != nil {
				log.WithError(err).Error("Failed to update synced transaction")
				return synced, err
			}
		}
		synced++
	}

	log.WithField("count", synced).Info("Transactions synced from provider")
	return synced, nil
}

// resolveSyncWindow parses the optional YYYY-MM-DD bounds; a missing end
// defaults to today and a missing start to thirty days before the end.
func resolveSyncWindow(startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now()
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	start := end.Add(-defaultSyncWindow)
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	t, err := s.repo.FindByIDAndUser(txID, userID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTransactionNotFound
	}

	if err := s.repo.DeleteByIDAndUser(txID, userID); err != nil {
		log.WithError(err).Error("Failed to delete transaction")
		return err
	}

	log.WithField("transaction_id", id).Info("Transaction deleted")
	return nil
}

func (s *transactionService) DeleteAll(ctx context.Context) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAllByUser(userID); err != nil {
		log.WithError(err).Error("Failed to delete transactions")
		return err
	}

	log.Info("All transactions deleted for user")
	return nil
}
