package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/adapters/duckdb"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/adapters/llm"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/adapters/pushover"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/config"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/domain"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/internal/core/services"
	"github.com/YunusEmre3757/career-assistant-agent-20220808026/pkg/kernel"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("starting agent kernel")

	if err := run(logger); err != nil {
		logger.Error("kernel startup failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Grounding context: loaded once, read-only for the process lifetime
	profile, err := services.LoadProfile(cfg.Profile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	repo, err := duckdb.NewRepository(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init repository: %w", err)
	}
	defer repo.Close()

	eventBus := services.NewEventBus(logger)
	push := pushover.NewNotifier(logger, cfg.Pushover.Endpoint, cfg.Pushover.UserKey, cfg.Pushover.APIToken)
	if push.Enabled() {
		logger.Info("pushover notifications enabled")
	} else {
		logger.Warn("pushover credentials missing, notifications disabled")
	}
	notifier := services.NewFanoutNotifier(push, eventBus)

	if profile.Loaded() {
		if err := notifier.Notify(ctx, "Both profile summary and narrative are available."); err != nil {
			logger.Warn("startup notification failed", "error", err)
		}
	} else {
		if err := notifier.Notify(ctx, "Either profile summary or narrative is missing."); err != nil {
			logger.Warn("startup notification failed", "error", err)
		}
	}

	provider := llm.NewOpenAIProvider(logger, cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.RequestTimeout)

	// Tool Registry - register available tools
	toolRegistry := domain.NewToolRegistry()
	if err := toolRegistry.Register(services.NewRecordUserDetailsTool(logger, notifier, repo)); err != nil {
		return fmt.Errorf("failed to register record_user_details tool: %w", err)
	}
	if err := toolRegistry.Register(services.NewRecordUnknownQuestionTool(logger, notifier, repo)); err != nil {
		return fmt.Errorf("failed to register record_unknown_question tool: %w", err)
	}

	evaluator := services.NewEvaluator(logger, provider, cfg.LLM.JudgeModel, profile)
	refineLoop := services.NewRefineLoop(logger, provider, cfg.LLM.GenerationModel, toolRegistry, evaluator, notifier, profile, cfg.MaxAttempts)

	auditLog, err := services.NewAuditLog(cfg.AuditLogPath)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	logger.Info("audit log loaded", "entries", auditLog.Len())

	session := services.NewSession(logger, refineLoop, auditLog, notifier, eventBus)

	apiServer := kernel.NewServer(logger, session, eventBus, auditLog, repo)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(apiServer.Handler())

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting chat api server", "addr", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
