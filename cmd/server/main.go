package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerprep/interview/internal/config"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/hub"
	"peerprep/interview/internal/jobs"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	"peerprep/interview/internal/metrics"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/orchestrator"
	"peerprep/interview/internal/prompts"
	"peerprep/interview/internal/questions"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/session"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// newQuestionSource wires remote generation when a provider is available. The
// local bank always backs it.
func newQuestionSource(cfg *config.Config, logger *zap.Logger) (*questions.Source, llm.Provider, error) {
	bank, err := questions.NewBank()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Provider == config.ProviderNone {
		logger.Info("Question generation disabled, using the local question bank")
		return questions.NewSource(nil, bank, logger), nil, nil
	}

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		return nil, nil, err
	}
	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Warn("Failed to initialize AI provider, interviews will use the local question bank",
			zap.Strings("registered", llm.Providers()),
			zap.Error(err))
		return questions.NewSource(nil, bank, logger), nil, nil
	}
	return questions.NewSource(questions.NewProviderGenerator(provider, promptManager), bank, logger), provider, nil
}

// restoreSessions loads the last snapshot into the repository and returns its revision.
// Only a store with no snapshot starts empty; a snapshot that cannot be read is an error,
// since the snapshot job would otherwise overwrite it with the empty repository.
func restoreSessions(ctx context.Context, st store.Store, repo *session.Repository, logger *zap.Logger) (uint64, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load session snapshot from %s: %w", st.Name(), err)
	}
	if snap == nil {
		logger.Info("No session snapshot found, starting empty")
		return 0, nil
	}
	if err := repo.Restore(snap); err != nil {
		return 0, fmt.Errorf("restore session snapshot: %w", err)
	}
	logger.Info("Sessions restored",
		zap.Int("sessions", len(snap.Records)),
		zap.Uint64("revision", snap.Revision),
	)
	return snap.Revision, nil
}

func main() {
	utils.InitLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.StoreDriver))

	ctx := context.Background()
	clock := clockwork.NewRealClock()

	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Fatal("Failed to open session store", zap.Error(err))
	}

	repo := session.NewRepository(clock)
	restored, err := restoreSessions(ctx, st, repo, logger)
	if err != nil {
		logger.Fatal("Failed to restore sessions, refusing to start over the stored snapshot", zap.Error(err))
	}

	source, provider, err := newQuestionSource(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize question source", zap.Error(err))
	}

	var orch *orchestrator.Orchestrator
	observers := hub.NewHub(func() any {
		rows := orch.Dashboard(orchestrator.DashboardQuery{})
		return models.DashboardResponse{Candidates: rows, Total: len(rows)}
	}, cfg.CORSAllowedOrigins, logger)

	publishers := events.Multi{observers}
	var rdb *redis.Client
	if cfg.EventsEnabled {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass})
		publishers = append(publishers, events.NewRedisPublisher(rdb, cfg.EventsChannel))
		logger.Info("Completion events enabled", zap.String("channel", cfg.EventsChannel))
	}

	orch = orchestrator.New(repo, resume.NewParser(int(cfg.MaxUploadBytes)), source, orchestrator.Options{
		Clock:        clock,
		Logger:       logger,
		Publisher:    publishers,
		Recorder:     metrics.NewRecorder(),
		PollInterval: cfg.TimerPollInterval,
	})

	if n, err := orch.Recover(ctx); err != nil {
		logger.Error("Failed to recover interrupted interviews", zap.Error(err))
	} else if n > 0 {
		logger.Info("Interrupted interviews paused", zap.Int("count", n))
	}

	snapshotJob := jobs.NewSnapshotJob(repo, st, &jobs.SnapshotConfig{
		Schedule: cfg.SnapshotSchedule,
		Enabled:  true,
	}, logger)
	if restored > 0 {
		snapshotJob.MarkSaved(restored)
	}
	if err := snapshotJob.Start(); err != nil {
		logger.Fatal("Failed to start snapshot job", zap.Error(err))
	}

	interviewHandler := handlers.NewInterviewHandler(orch, cfg.MaxUploadBytes, logger)
	healthHandler := handlers.NewHealthHandler(provider, st, cfg)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, metrics.Middleware)

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler, observers.ServeWS)

	serverAddr := ":" + cfg.Port

	// no write timeout, the observer websocket is long lived
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	// graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// a running question is paused so it resumes with its remaining time
	orch.Suspend(shutdownCtx)
	orch.Close()

	if err := snapshotJob.Flush(shutdownCtx); err != nil {
		logger.Error("Failed to save final snapshot", zap.Error(err))
	}
	if err := st.Close(); err != nil {
		logger.Warn("Failed to close session store", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("Interview service exited")
}
