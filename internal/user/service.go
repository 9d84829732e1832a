package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password must have at least 8 characters")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	resetTokenTTL   = 30 * time.Minute
)

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, dto ResetPasswordDTO) error
	SaveBankCredentials(ctx context.Context, userID, itemID, accessToken string) error
	ClearBankCredentials(ctx context.Context, userID string) error
}

type userService struct {
	repo UserRepository
}

func NewService(repo UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if len(dto.Password) < 8 {
		return nil, ErrWeakPassword
	}

	existing, err := s.repo.GetByEmail(email)
	if err != nil {
		log.WithError(err).Error("Failed to look up email during registration")
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := User{
		Name:         strings.TrimSpace(dto.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(&u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered successfully")
	return toResponse(&u), nil
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		log.WithError(err).Error("Failed to look up user during login")
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		log.WithField("user_id", u.ID).Warn("Login attempt with wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(u)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateJWT(refreshToken)
	if err != nil {
		log.WithError(err).Warn("Refresh with invalid token")
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	return s.issueTokens(u)
}

func (s *userService) issueTokens(u *User) (*AuthResponse, error) {
	token, err := auth.GenerateJWT(u.ID.String(), u.Email, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateJWT(u.ID.String(), u.Email, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:        token,
		RefreshToken: refresh,
		User:         *toResponse(u),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return toResponse(u), nil
}

// ForgotPassword issues a short-lived reset token. Delivery of the token is
// the frontend collaborator's concern; the API only mints and verifies it.
func (s *userService) ForgotPassword(ctx context.Context, email string) (string, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	if u == nil {
		// Do not reveal whether the address exists.
		return "", nil
	}

	token, err := auth.GenerateJWT(u.ID.String(), u.Email, resetTokenTTL)
	if err != nil {
		log.WithError(err).Error("Failed to mint password reset token")
		return "", err
	}
	return token, nil
}

func (s *userService) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	log := config.WithContext(ctx)

	claims, err := auth.ValidateJWT(dto.Token)
	if err != nil {
		return ErrInvalidResetToken
	}
	if len(dto.NewPassword) < 8 {
		return ErrWeakPassword
	}

	u, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)

	if err := s.repo.Update(u); err != nil {
		log.WithError(err).Error("Failed to persist new password")
		return err
	}

	log.WithField("user_id", u.ID).Info("Password reset successfully")
	return nil
}

func (s *userService) SaveBankCredentials(ctx context.Context, userID, itemID, accessToken string) error {
	log := config.WithContext(ctx)

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	encItem, err := config.Encrypt(itemID)
	if err != nil {
		log.WithError(err).Error("Failed to encrypt bank item id")
		return err
	}
	encToken, err := config.Encrypt(accessToken)
	if err != nil {
		log.WithError(err).Error("Failed to encrypt bank access token")
		return err
	}

	now := time.Now()
	u.EncryptedBankItemID = encItem
	u.EncryptedBankAccessToken = encToken
	u.BankConnectedAt = &now

	return s.repo.Update(u)
}

func (s *userService) ClearBankCredentials(ctx context.Context, userID string) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	u.EncryptedBankItemID = ""
	u.EncryptedBankAccessToken = ""
	u.BankConnectedAt = nil

	return s.repo.Update(u)
}

func toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		BankConnected: u.EncryptedBankAccessToken != "",
		CreatedAt:     u.CreatedAt,
	}
}
