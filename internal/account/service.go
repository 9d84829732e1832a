package account

import (
	"context"
	"errors"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/google/uuid"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidID       = errors.New("invalid id format")
)

// GoalUnlinker clears goal references to an account that is being removed,
// so no goal keeps a reservation against a deleted account.
type GoalUnlinker interface {
	UnlinkAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

type AccountService interface {
	List(ctx context.Context) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Account, error)
	Summary(ctx context.Context) (*SummaryResponse, error)
	Sync(ctx context.Context) (*SyncResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error

	// SyncForUser is the bank.AccountSyncer implementation used right after
	// a token exchange, before the request context carries new state.
	SyncForUser(ctx context.Context, userID string) (int, error)
}

type accountService struct {
	repo     AccountRepository
	bank     bank.BankService
	unlinker GoalUnlinker
}

func NewService(repo AccountRepository, bankService bank.BankService, unlinker GoalUnlinker) AccountService {
	return &accountService{
		repo:     repo,
		bank:     bankService,
		unlinker: unlinker,
	}
}

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func (s *accountService) List(ctx context.Context) (*ListResponse, error) {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListByUser(userID)
	if err != nil {
		log.WithError(err).Error("Failed to list accounts")
		return nil, err
	}

	return &ListResponse{Accounts: accounts, Total: len(accounts)}, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*Account, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	a, err := s.repo.FindByIDAndUser(accountID, userID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAccountNotFound
	}
	return a, nil
}

func (s *accountService) Summary(ctx context.Context) (*SummaryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := SummaryResponse{
		TotalAccounts:  len(accounts),
		BalancesByType: map[string]float64{},
		AccountsByType: map[string]int{},
	}
	for _, a := range accounts {
		summary.NetWorth += a.Balances.Current
		summary.TotalAvailable += a.AvailableBalance()
		summary.BalancesByType[a.Type] += a.Balances.Current
		summary.AccountsByType[a.Type]++
	}
	return &summary, nil
}

func (s *accountService) Sync(ctx context.Context) (*SyncResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.SyncForUser(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	return &SyncResponse{SyncedCount: count}, nil
}

func (s *accountService) SyncForUser(ctx context.Context, userID string) (int, error) {
	log := config.WithContext(ctx)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return 0, ErrInvalidID
	}

	accessToken, err := s.bank.AccessTokenForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	providerAccounts, err := s.bank.Client().FetchAccounts(ctx, accessToken)
	if err != nil {
		log.WithError(err).Error("Failed to fetch accounts from provider")
		return 0, err
	}

	synced := 0
	for _, pa := range providerAccounts {
		existing, err := s.repo.FindByProviderIDAndUser(pa.ProviderAccountID, uid)
		if err != nil {
			return synced, err
		}

		if existing == nil {
			a := Account{
				UserID:            uid,
				ProviderAccountID: pa.ProviderAccountID,
				Name:              pa.Name,
				OfficialName:      pa.OfficialName,
				Mask:              pa.Mask,
				Type:              pa.Type,
				Subtype:           pa.Subtype,
				Balances:          Balances{Current: pa.CurrentBalance, Available: pa.AvailableBalance},
				ISOCurrencyCode:   pa.ISOCurrencyCode,
			}
			if err := s.repo.Create(&a); err != nil {
				log.WithError(err).Error("Failed to create synced account")
				return synced, err
			}
		} else {
			existing.Name = pa.Name
			existing.OfficialName = pa.OfficialName
			existing.Mask = pa.Mask
			existing.Type = pa.Type
			existing.Subtype = pa.Subtype
			existing.Balances = Balances{Current: pa.CurrentBalance, Available: pa.AvailableBalance}
			existing.ISOCurrencyCode = pa.ISOCurrencyCode
			if err := s.repo.Update(existing); err != nil {
				log.WithError(err).Error("Failed to update synced account")
				return synced, err
			}
		}
		synced++
	}

	log.WithField("count", synced).Info("Accounts synced from provider")
	return synced, nil
}

func (s *accountService) Delete(ctx context.Context, id string) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	accountID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	existing, err := s.repo.FindByIDAndUser(accountID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAccountNotFound
	}

	if err := s.unlinker.UnlinkAccount(ctx, userID, accountID); err != nil {
		log.WithError(err).Error("Failed to unlink goals from account before deletion")
		return err
	}

	return s.repo.DeleteByIDAndUser(accountID, userID)
}

func (s *accountService) DeleteAll(ctx context.Context) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	accounts, err := s.repo.ListByUser(userID)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if err := s.unlinker.UnlinkAccount(ctx, userID, a.ID); err != nil {
			log.WithError(err).Error("Failed to unlink goals before account wipe")
			return err
		}
	}

	return s.repo.DeleteAllByUser(userID)
}
