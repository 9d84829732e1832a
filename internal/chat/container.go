package chat

import (
	"context"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"gorm.io/gorm"
)

type ChatContainer struct {
	Handler *Handler
	Service ChatService
}

func NewChatContainer(db *gorm.DB, accounts account.AccountRepository, goals goal.GoalRepository) *ChatContainer {
	ctx := context.Background()
	provider, err := NewGeminiProvider(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Warn("Gemini provider unavailable, chat disabled")
	}

	repo := NewRepository(db)
	service := NewService(repo, provider, accounts, goals)
	handler := NewHandler(service)

	return &ChatContainer{
		Handler: handler,
		Service: service,
	}
}
