// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"go_cyber_mentor/internal/cache"
	"go_cyber_mentor/internal/config"
	"go_cyber_mentor/internal/handlers"
	"go_cyber_mentor/internal/middleware"
	"go_cyber_mentor/internal/repository"
	"go_cyber_mentor/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// Configを読み込み
	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logger := newLogger(tempLogger)
	log.Println("Log Config Loaded...")
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// Initialize Database Connection (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := repository.Migrate(db); err != nil {
		slog.Error("Error running migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// キャッシュストアの選択。Redisが構成されていなければインメモリで代替する。
	var store cache.Store
	if config.Cfg.Redis.Addr != "" {
		store, err = cache.NewRedisStore(config.Cfg.Redis.Addr, config.Cfg.Redis.Password, config.Cfg.Redis.DB, logger)
		if err != nil {
			slog.Error("Error connecting to Redis", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Using Redis cache store", slog.String("addr", config.Cfg.Redis.Addr))
	} else {
		store = cache.NewMemoryStore()
		slog.Warn("Redis address not configured, using in-memory cache store")
	}

	// AI応答の生成元。APIキーがなければログ出力のみのダミーにフォールバック。
	var responder service.Responder
	if os.Getenv("OPENAI_API_KEY") != "" {
		responder, err = service.NewOpenAIResponder(&config.Cfg)
		if err != nil {
			slog.Error("Error initializing OpenAI responder", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Using OpenAI responder", slog.String("model", config.Cfg.AI.Model))
	} else {
		responder = &service.LogResponder{}
		slog.Warn("OPENAI_API_KEY not set, using log responder")
	}

	// Dependency Injection
	userRepo := repository.NewGormUserRepository()
	convRepo := repository.NewGormConversationRepository()
	msgRepo := repository.NewGormMessageRepository()
	statsRepo := repository.NewGormStatsRepository()
	learningRepo := repository.NewGormLearningRepository()
	labRepo := repository.NewGormLabRepository()

	authService := service.NewAuthService(db, userRepo, &config.Cfg)
	convService := service.NewConversationService(db, convRepo, msgRepo, store, &config.Cfg)
	statsService := service.NewStatsService(db, statsRepo, convRepo, msgRepo)
	learningService := service.NewLearningService(db, learningRepo)
	labService := service.NewLabService(db, labRepo, learningRepo)

	authHandler := handlers.NewAuthHandler(authService, logger)
	chatHandler := handlers.NewChatHandler(convService, responder, &config.Cfg, logger)
	learningHandler := handlers.NewLearningHandler(learningService, logger)
	labHandler := handlers.NewLabHandler(labService, logger)
	statsHandler := handlers.NewStatsHandler(statsService, logger)

	// Setup Router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	// CORS 設定と適用 (設定ファイルから読み込んだ値を使用)
	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes (require JWT) ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuthMiddleware(&config.Cfg))

			r.Get("/auth/me", authHandler.GetMe)

			// Chat routes
			r.Post("/chat/messages", chatHandler.SendMessage)
			r.Route("/conversations", func(r chi.Router) {
				r.Post("/", chatHandler.PostConversation)
				r.Get("/", chatHandler.GetConversations)
				r.Get("/{conversation_id}/messages", chatHandler.GetConversationMessages)
				r.Delete("/{conversation_id}", chatHandler.DeleteConversation)
			})
			r.Delete("/messages/{message_id}", chatHandler.DeleteMessage)

			// Learning routes
			r.Route("/learning/modules", func(r chi.Router) {
				r.Get("/", learningHandler.GetModules)
				r.Get("/{slug}", learningHandler.GetModule)
				r.Get("/{slug}/labs", labHandler.GetLabs)
			})

			// Lab routes
			r.Route("/labs/{lab_id}", func(r chi.Router) {
				r.Post("/start", labHandler.StartLab)
				r.Post("/submit", labHandler.SubmitLab)
				r.Post("/hint", labHandler.UseHint)
				r.Post("/complete", labHandler.CompleteLab)
				r.Post("/reset", labHandler.ResetLab)
			})

			// Stats routes
			r.Get("/admin/stats", statsHandler.GetRecentStats)
			r.Post("/admin/stats/recompute", statsHandler.RecomputeStats)
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sqlDB, err := db.DB()
		if err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}

// newLogger は設定値からslogロガーを組み立てます
func newLogger(tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
