package container

import (
	"context"
	"log"
	"os"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/chat"
	"github.com/finwiselabs/finwise-lambda/internal/config"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"github.com/finwiselabs/finwise-lambda/internal/transaction"
	"github.com/finwiselabs/finwise-lambda/internal/user"
)

type Container struct {
	UserContainer        *user.UserContainer
	AccountContainer     *account.AccountContainer
	GoalContainer        *goal.GoalContainer
	TransactionContainer *transaction.TransactionContainer
	BankContainer        *bank.BankContainer
	BankHandler          *bank.Handler
	ChatContainer        *chat.ChatContainer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := config.DB.AutoMigrate(
		&user.User{},
		&account.Account{},
		&goal.Goal{},
		&transaction.Transaction{},
		&chat.ChatMessage{},
	); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)
	bankContainer := bank.NewBankContainer(userContainer.Repo, userContainer.Service)

	// The goal service doubles as the account container's unlinker, so the
	// goal side is wired first against a bare account repository.
	accountRepo := account.NewRepository(config.DB)
	goalContainer := goal.NewGoalContainer(
		config.DB,
		accountRepo,
		os.Getenv("GOAL_AUTO_COMPLETE") == "true",
	)

	accountContainer := account.NewAccountContainer(config.DB, bankContainer.Service, goalContainer.Service)
	transactionContainer := transaction.NewTransactionContainer(config.DB, bankContainer.Service)
	chatContainer := chat.NewChatContainer(config.DB, accountContainer.Repo, goalContainer.Repo)

	bankHandler := bankContainer.NewHandlerFor(accountContainer.Service, transactionContainer.Service)

	return &Container{
		UserContainer:        userContainer,
		AccountContainer:     accountContainer,
		GoalContainer:        goalContainer,
		TransactionContainer: transactionContainer,
		BankContainer:        bankContainer,
		BankHandler:          bankHandler,
		ChatContainer:        chatContainer,
	}
}
