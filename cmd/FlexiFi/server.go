package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/assistant"
	"github.com/sebuszqo/FlexiFi/internal/auth"
	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/sebuszqo/FlexiFi/internal/report"
	"github.com/sebuszqo/FlexiFi/internal/user"
)

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	router      http.Handler
	logger      logging.Logger
	health      healthChecker
	authService auth.Service

	authHandler        *auth.Handler
	userHandler        *user.Handler
	accountHandler     *interfaces.AccountHandler
	transactionHandler *interfaces.PersonalTransactionHandler
	budgetHandler      *interfaces.BudgetHandler
	goalHandler        *interfaces.SavingsGoalHandler
	categoryHandler    *interfaces.CategoryHandler
	paymentHandler     *interfaces.PaymentHandler
	adviceHandler      *interfaces.AdviceHandler
	assistantHandler   *assistant.Handler
	reportHandler      *report.Handler
}

// statusRecorder keeps the status code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("Request completed",
			logging.Field{Key: logging.FieldMethod, Value: r.Method},
			logging.Field{Key: logging.FieldPath, Value: r.URL.Path},
			logging.Field{Key: logging.FieldStatus, Value: rec.status},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
		)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	body := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errors) > 0 && len(errors[0]) > 0 {
		body["errors"] = errors[0]
	}
	respondJSON(w, status, body)
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusNotFound, "Path not found")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.health.Health(r.Context())
	if stats["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, stats)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

func (s *Server) RegisterRoutes() {
	protect := s.authService.JWTAccessTokenMiddleware()
	protected := func(h http.HandlerFunc) http.Handler { return protect(h) }

	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protectedRoutes.Handle("GET /api/protected/profile", protected(s.userHandler.HandleGetUserProfile))
	protectedRoutes.Handle("POST /api/protected/change-password", protected(s.userHandler.HandleChangePassword))

	protectedRoutes.Handle("POST /api/protected/2fa/register", protected(s.authHandler.HandleRegisterTwoFactor))
	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration", protected(s.authHandler.HandleVerifyTwoFactorCode))
	protectedRoutes.Handle("DELETE /api/protected/2fa/disable", protected(s.authHandler.HandleDisableTwoFactor))

	// ACCOUNTS
	protectedRoutes.Handle("POST /api/protected/accounts", protected(s.accountHandler.CreateAccount))
	protectedRoutes.Handle("GET /api/protected/accounts", protected(s.accountHandler.GetAccounts))
	protectedRoutes.Handle("PUT /api/protected/accounts/{accountID}", protect(interfaces.ValidatePathParams(respondError, http.HandlerFunc(s.accountHandler.UpdateBalance), "accountID")))

	// TRANSACTIONS
	protectedRoutes.Handle("POST /api/protected/transactions", protected(s.transactionHandler.CreateTransaction))
	protectedRoutes.Handle("POST /api/protected/transactions/bulk", protected(s.transactionHandler.CreateTransactionsBulk))
	protectedRoutes.Handle("POST /api/protected/transactions/import", protected(s.transactionHandler.ImportTransactionsCSV))
	protectedRoutes.Handle("GET /api/protected/transactions", protected(s.transactionHandler.GetUserTransactions))
	protectedRoutes.Handle("GET /api/protected/transactions/export", protected(s.transactionHandler.ExportTransactionsCSV))
	protectedRoutes.Handle("GET /api/protected/transactions/summary", protected(s.transactionHandler.GetTransactionSummary))
	protectedRoutes.Handle("GET /api/protected/categories", protected(s.categoryHandler.GetCategories))
	protectedRoutes.Handle("GET /api/protected/payment-methods", protected(s.paymentHandler.GetPaymentMethods))

	// BUDGETS AND GOALS
	protectedRoutes.Handle("POST /api/protected/budgets", protected(s.budgetHandler.CreateBudget))
	protectedRoutes.Handle("GET /api/protected/budgets", protected(s.budgetHandler.GetBudgets))
	protectedRoutes.Handle("GET /api/protected/budgets/active", protected(s.budgetHandler.GetActiveBudget))
	protectedRoutes.Handle("POST /api/protected/savings-goals", protected(s.goalHandler.CreateGoal))
	protectedRoutes.Handle("GET /api/protected/savings-goals", protected(s.goalHandler.GetGoals))
	protectedRoutes.Handle("PUT /api/protected/savings-goals/{goalID}/progress", protect(interfaces.ValidatePathParams(respondError, http.HandlerFunc(s.goalHandler.UpdateProgress), "goalID")))

	// ADVICE
	protectedRoutes.Handle("POST /api/protected/advice/facts", protected(s.adviceHandler.ComposeFacts))
	protectedRoutes.Handle("POST /api/protected/ai-analysis", protected(s.assistantHandler.Analyze))
	protectedRoutes.Handle("GET /api/protected/ai-analysis", protected(s.assistantHandler.ListAnalyses))
	protectedRoutes.Handle("POST /api/protected/chat", protected(s.assistantHandler.Chat))
	protectedRoutes.Handle("GET /api/protected/chat", protected(s.assistantHandler.History))
	protectedRoutes.Handle("POST /api/protected/reports", protected(s.reportHandler.GenerateReport))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = loggingMiddleware(s.logger, mainRouter)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
