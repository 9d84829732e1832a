package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/finwiselabs/finwise-lambda/internal/account"
	"github.com/finwiselabs/finwise-lambda/internal/auth"
	"github.com/finwiselabs/finwise-lambda/internal/bank"
	"github.com/finwiselabs/finwise-lambda/internal/chat"
	"github.com/finwiselabs/finwise-lambda/internal/goal"
	"github.com/finwiselabs/finwise-lambda/internal/middlewares"
	"github.com/finwiselabs/finwise-lambda/internal/transaction"
	"github.com/finwiselabs/finwise-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler        *user.Handler
	AccountHandler     *account.Handler
	GoalHandler        *goal.Handler
	TransactionHandler *transaction.Handler
	BankHandler        *bank.Handler
	ChatHandler        *chat.Handler
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.UserHandler.Register)
		r.Post("/login", cfg.UserHandler.Login)
		r.Post("/refresh", cfg.UserHandler.RefreshToken)
		r.Post("/forgot-password", cfg.UserHandler.ForgotPassword)
		r.Post("/reset-password", cfg.UserHandler.ResetPassword)
		r.Post("/logout", auth.NewHandler().Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/accounts", account.Routes(cfg.AccountHandler))
		r.Mount("/goals", goal.Routes(cfg.GoalHandler))
		r.Mount("/transaction", transaction.Routes(cfg.TransactionHandler))
		r.Mount("/plaid", bank.Routes(cfg.BankHandler))
		r.Mount("/chat", chat.Routes(cfg.ChatHandler))
	})

	return r
}
