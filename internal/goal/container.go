package goal

import (
	"github.com/finwiselabs/finwise-lambda/internal/account"
	"gorm.io/gorm"
)

type GoalContainer struct {
	Handler *Handler
	Service GoalService
	Repo    GoalRepository
}

func NewGoalContainer(db *gorm.DB, accounts account.AccountRepository, autoComplete bool) *GoalContainer {
	repo := NewRepository(db)
	service := NewService(repo, accounts, autoComplete)
	handler := NewHandler(service)

	return &GoalContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
