package chat

import (
	"context"
	"errors"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrEmptyMessage    = errors.New("message is required")
	ErrMessageNotFound = errors.New("chat message not found")
	ErrInvalidID       = errors.New("invalid id format")
)

type ChatService interface {
	SendMessage(ctx context.Context, dto SendMessageDTO) (*SendMessageResponse, error)
	History(ctx context.Context) (*HistoryResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type chatService struct {
	repo     ChatRepository
	provider Provider
	accounts account.AccountRepository
	goals    goal.GoalRepository
}

func NewService(repo ChatRepository, provider Provider, accounts account.AccountRepository, goals goal.GoalRepository) ChatService {
	return &chatService{
		repo:     repo,
		provider: provider,
		accounts: accounts,
		goals:    goals,
	}
}

func userIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}
	return uuid.MustParse(claims.UserID), nil
}

func (s *chatService) SendMessage(ctx context.Context, dto SendMessageDTO) (*SendMessageResponse, error) {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if dto.Message == "" {
		return nil, ErrEmptyMessage
	}

	accounts, err := s.accounts.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	goals, err := s.goals.ListByUser(userID, "", "")
	if err != nil {
		return nil, err
	}

	var selectedAccountID *uuid.UUID
	var selected *account.Account
	if dto.SelectedAccountID != nil && *dto.SelectedAccountID != "" {
		id, err := uuid.Parse(*dto.SelectedAccountID)
		if err != nil {
			return nil, ErrInvalidID
		}
		selectedAccountID = &id
		for i := range accounts {
			if accounts[i].ID == id {
				selected = &accounts[i]
				break
			}
		}
	}

	financialContext := BuildFinancialContext(accounts, goals, selected)
	answer, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(dto.Message, financialContext))
	if err != nil {
		log.WithError(err).Error("Failed to get assistant response")
		return nil, err
	}

	m := ChatMessage{
		UserID:            userID,
		Message:           dto.Message,
		Response:          answer,
		SelectedAccountID: selectedAccountID,
	}
	if err := s.repo.Create(&m); err != nil {
		log.WithError(err).Error("Failed to store chat exchange")
		return nil, err
	}

	return &SendMessageResponse{Response: answer}, nil
}

func (s *chatService) History(ctx context.Context) (*HistoryResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return &HistoryResponse{History: messages}, nil
}

func (s *chatService) Delete(ctx context.Context, id string) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	messageID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}

	m, err := s.repo.FindByIDAndUser(messageID, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrMessageNotFound
	}

	return s.repo.DeleteByIDAndUser(messageID, userID)
}

func (s *chatService) DeleteAll(ctx context.Context) error {
	log := config.WithContext(ctx)

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAllByUser(userID); err != nil {
		log.WithError(err).Error("Failed to delete chat history")
		return err
	}

	log.Info("Chat history deleted for user")
	return nil
}
