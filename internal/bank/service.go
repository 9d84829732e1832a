package bank

import (
	"context"
	"errors"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/finwiselabs/finwise-lambda/internal/user"
)

func userIDFromContext(ctx context.Context) (string, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.UserID, nil
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotConnected    = errors.New("user has no linked bank item")
	ErrUserNotFound    = errors.New("user not found for bank integration")
	ErrDecryptionFailed = errors.New("failed to decrypt bank access token")
)

type StatusResponse struct {
	Connected   bool       `json:"connected"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

type BankService interface {
	CreateLinkToken(ctx context.Context) (*LinkToken, error)
	CreateSandboxPublicToken(ctx context.Context) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) error
	Disconnect(ctx context.Context) error
	Status(ctx context.Context) (*StatusResponse, error)

	// AccessTokenForUser decrypts the stored provider token. Used by the
	// account and transaction sync flows.
	AccessTokenForUser(ctx context.Context, userID string) (string, error)
	Client() Client
}

type bankService struct {
	client      Client
	userRepo    user.UserRepository
	userService user.UserService
}

func NewService(client Client, userRepo user.UserRepository, userService user.UserService) BankService {
	return &bankService{
		client:      client,
		userRepo:    userRepo,
		userService: userService,
	}
}

func (s *bankService) Client() Client {
	return s.client
}

func (s *bankService) CreateLinkToken(ctx context.Context) (*LinkToken, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.CreateLinkToken(ctx, userID)
}

func (s *bankService) CreateSandboxPublicToken(ctx context.Context) (string, error) {
	return s.client.CreateSandboxPublicToken(ctx)
}

func (s *bankService) ExchangePublicToken(ctx context.Context, publicToken string) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	result, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		log.WithError(err).Error("Failed to exchange public token")
		return err
	}

	if err := s.userService.SaveBankCredentials(ctx, userID, result.ItemID, result.AccessToken); err != nil {
		log.WithError(err).Error("Failed to store bank credentials")
		return err
	}

	log.WithField("user_id", userID).Info("Bank item linked successfully")
	return nil
}

func (s *bankService) Disconnect(ctx context.Context) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	accessToken, err := s.AccessTokenForUser(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotConnected) {
		return err
	}
	if accessToken != "" {
		if err := s.client.RemoveItem(ctx, accessToken); err != nil {
			log.WithError(err).Warn("Failed to remove item at the provider, clearing local credentials anyway")
		}
	}

	return s.userService.ClearBankCredentials(ctx, userID)
}

func (s *bankService) Status(ctx context.Context) (*StatusResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return &StatusResponse{
		Connected:   u.EncryptedBankAccessToken != "",
		ConnectedAt: u.BankConnectedAt,
	}, nil
}

func (s *bankService) AccessTokenForUser(ctx context.Context, userID string) (string, error) {
	log := config.WithContext(ctx)

	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}
	if u.EncryptedBankAccessToken == "" {
		return "", ErrNotConnected
	}

	accessToken, err := config.Decrypt(u.EncryptedBankAccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to decrypt bank access token")
		return "", ErrDecryptionFailed
	}
	return accessToken, nil
}
