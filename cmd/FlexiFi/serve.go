package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sebuszqo/FlexiFi/internal/assistant"
	"github.com/sebuszqo/FlexiFi/internal/auth"
	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/infrastructure"
	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/sebuszqo/FlexiFi/internal/notify"
	"github.com/sebuszqo/FlexiFi/internal/report"
	"github.com/sebuszqo/FlexiFi/internal/user"
	"github.com/spf13/cobra"
)

const sessionCleanupSchedule = "@every 1m"

var flagMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagMigrate, "migrate", false, "apply the schema before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbService, err := openDatabase(ctx)
	if err != nil {
		return fmt.Errorf("could not initialize database: %w", err)
	}
	defer dbService.Close()

	if flagMigrate {
		if err := dbService.Migrate(ctx); err != nil {
			return err
		}
	}

	app, err := buildApp(ctx, dbService)
	if err != nil {
		return err
	}
	defer app.close()

	scheduler, err := startScheduler(app)
	if err != nil {
		return fmt.Errorf("scheduler didn't start: %w", err)
	}
	defer func() { <-scheduler.Stop().Done() }()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", logging.Field{Key: "addr", Value: cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type app struct {
	server   *Server
	sessions *auth.SessionManager
	digest   *notify.DigestJob
	mailer   *notify.Mailer
	renderer *assistant.GeminiRenderer
}

func (a *app) close() {
	if a.mailer != nil {
		a.mailer.Close()
	}
	if a.renderer != nil {
		_ = a.renderer.Close()
	}
}

// userRecipients resolves digest recipients from the user store.
type userRecipients struct {
	users user.Service
}

func (u userRecipients) Recipient(ctx context.Context, userID string) (*notify.Recipient, error) {
	found, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &notify.Recipient{Email: found.Email, Name: found.Login}, nil
}

func buildApp(ctx context.Context, dbService *db.DBService) (*app, error) {
	a := &app{}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return nil, err
	}
	a.sessions = auth.NewSessionManager()

	userService := user.NewUserService(user.NewUserRepository(dbService), logger)
	authService := auth.NewAuthService(auth.NewTwoFactorRepository(dbService), userService, a.sessions, jwtManager, &auth.Authenticator{}, logger)

	transactionRepo := infrastructure.NewPersonalTransactionRepository(dbService)
	budgetRepo := infrastructure.NewBudgetRepository(dbService)
	goalRepo := infrastructure.NewSavingsGoalRepository(dbService)
	accountRepo := infrastructure.NewAccountRepository(dbService)

	paymentService := application.NewPaymentService()
	transactionService := application.NewPersonalTransactionService(transactionRepo, paymentService, logger)
	accountService := application.NewAccountService(accountRepo, transactionService, logger)
	budgetService := application.NewBudgetService(budgetRepo)
	goalService := application.NewSavingsGoalService(goalRepo)
	categoryService := application.NewCategoryService(transactionRepo)

	composer := advisory.NewComposer(advisory.NewEvaluator(advisory.PolicyFromRatio(cfg.Advisor.TightnessRatio)))
	adviceService := application.NewAdviceService(transactionRepo, budgetRepo, goalRepo, composer, logger)

	var renderer assistant.Renderer
	if cfg.AI.Enabled {
		a.renderer, err = assistant.NewGeminiRenderer(ctx, assistant.GeminiConfig{
			APIKey:            cfg.AI.APIKey,
			Model:             cfg.AI.Model,
			Timeout:           cfg.AITimeout(),
			RequestsPerMinute: cfg.AI.RequestsPerMinute,
		})
		if err != nil {
			return nil, fmt.Errorf("could not initialize renderer: %w", err)
		}
		renderer = a.renderer
	} else {
		logger.Warn("AI rendering disabled, advice responses carry facts only")
	}
	assistantService := assistant.NewService(assistant.NewRepository(dbService), adviceService, renderer, logger)

	var storage report.Storage
	if cfg.ReportStorageEnabled() {
		s3Storage, err := report.NewS3Storage(ctx, cfg.Report.Bucket, cfg.Report.Region, cfg.Report.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("could not initialize report storage: %w", err)
		}
		storage = s3Storage
	}
	reportService := report.NewService(adviceService, storage, time.Duration(cfg.Report.URLExpiryMinutes)*time.Minute, logger)

	if cfg.Digest.Enabled {
		a.mailer, err = notify.NewMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Password: cfg.SMTP.Password,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("could not initialize mailer: %w", err)
		}
		a.digest = notify.NewDigestJob(budgetRepo, userRecipients{users: userService}, adviceService, a.mailer, logger)
	}

	a.server = &Server{
		logger:             logger,
		health:             dbService,
		authService:        authService,
		authHandler:        auth.NewHandler(authService, logger, respondJSON, respondError),
		userHandler:        user.NewHandler(userService, logger, respondJSON, respondError),
		accountHandler:     interfaces.NewAccountHandler(accountService, logger, respondJSON, respondError),
		transactionHandler: interfaces.NewPersonalTransactionHandler(transactionService, logger, respondJSON, respondError),
		budgetHandler:      interfaces.NewBudgetHandler(budgetService, logger, respondJSON, respondError),
		goalHandler:        interfaces.NewSavingsGoalHandler(goalService, logger, respondJSON, respondError),
		categoryHandler:    interfaces.NewCategoryHandler(categoryService, logger, respondJSON, respondError),
		paymentHandler:     interfaces.NewPaymentHandler(paymentService, respondJSON, respondError),
		adviceHandler:      interfaces.NewAdviceHandler(adviceService, logger, respondJSON, respondError),
		assistantHandler:   assistant.NewHandler(assistantService, logger, respondJSON, respondError),
		reportHandler:      report.NewHandler(reportService, logger, respondJSON, respondError),
	}
	a.server.RegisterRoutes()
	return a, nil
}

func startScheduler(a *app) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(sessionCleanupSchedule, func() {
		if removed := a.sessions.CleanupExpired(); removed > 0 {
			logger.Debug("Expired session tokens removed",
				logging.Field{Key: logging.FieldJob, Value: "session_cleanup"},
				logging.Field{Key: logging.FieldCount, Value: removed})
		}
	})
	if err != nil {
		return nil, err
	}

	if a.digest != nil {
		_, err = c.AddFunc(cfg.Digest.Schedule, func() {
			if _, err := a.digest.Run(context.Background()); err != nil {
				logger.WithError(err).Error("Budget digest failed", logging.Field{Key: logging.FieldJob, Value: "budget_digest"})
			}
		})
		if err != nil {
			return nil, fmt.Errorf("invalid digest schedule %q: %w", cfg.Digest.Schedule, err)
		}
	}

	c.Start()
	return c, nil
}
