package account

import (
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"gorm.io/gorm"
)

type AccountContainer struct {
	Handler *Handler
	Service AccountService
	Repo    AccountRepository
}

func NewAccountContainer(db *gorm.DB, bankService bank.BankService, unlinker GoalUnlinker) *AccountContainer {
	repo := NewRepository(db)
	service := NewService(repo, bankService, unlinker)
	handler := NewHandler(service)

	return &AccountContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
