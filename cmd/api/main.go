package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/zhouzirui/mood-journal/backend/internal/config"
	"github.com/zhouzirui/mood-journal/backend/internal/database"
	"github.com/zhouzirui/mood-journal/backend/internal/handler"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
	"github.com/zhouzirui/mood-journal/backend/internal/service/ai"
	emotionservice "github.com/zhouzirui/mood-journal/backend/internal/service/emotion"
	journalservice "github.com/zhouzirui/mood-journal/backend/internal/service/journal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog, err := logger.New("development")
	if err != nil {
		panic(err)
	}

	// Load .env file
	if err := godotenv.Load(); err != nil {
		bootLog.Warn("failed to load .env file, continuing with system environment variables only", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		bootLog.Error("failed to build logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", "error", err)
		}
	}()

	// 未配置模型时情绪统一为 unknown，回复统一使用兜底文案
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = ai.NewChatModel(ctx, cfg.AI)
		if err != nil {
			log.Warn("failed to initialize chat model, continuing without AI functionality", "provider", cfg.AI.Provider, "error", err)
		} else {
			log.Info("chat model initialized", "provider", cfg.AI.Provider)
		}
	} else {
		log.Warn("model credentials not configured, skipping AI initialization", "provider", cfg.AI.Provider)
	}

	emotionSvc, err := emotionservice.NewService(ctx, chatModel, log)
	if err != nil {
		log.Error("failed to initialize emotion classifier", "error", err)
		os.Exit(1)
	}

	responder, err := ai.NewResponder(ctx, chatModel, cfg.AI.ReplyTemperature, log)
	if err != nil {
		log.Error("failed to initialize responder", "error", err)
		os.Exit(1)
	}

	journalSvc := journalservice.NewService(journalservice.NewStore(db), emotionSvc, responder, log)
	router := handler.NewRouter(journalSvc, healthCheck(db), log)

	if err := startServer(ctx, cfg.Server, router, log); err != nil {
		log.Error("server error", "error", err)
	}
}

func healthCheck(db *gorm.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log *logger.Logger) error {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("mood journal backend listening", "addr", addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
