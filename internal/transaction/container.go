package transaction

import (
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"gorm.io/gorm"
)

type TransactionContainer struct {
	Handler *Handler
	Service TransactionService
	Repo    TransactionRepository
}

func NewTransactionContainer(db *gorm.DB, bankService bank.BankService) *TransactionContainer {
	repo := NewRepository(db)
	service := NewService(repo, bankService)
	handler := NewHandler(service)

	return &TransactionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
