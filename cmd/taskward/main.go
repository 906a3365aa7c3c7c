package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appauth "github.com/taskward/taskward/internal/application/auth"
	"github.com/taskward/taskward/internal/application/ports"
	"github.com/taskward/taskward/internal/application/tasks"
	"github.com/taskward/taskward/internal/config"
	infraauth "github.com/taskward/taskward/internal/infrastructure/auth"
	httprouter "github.com/taskward/taskward/internal/infrastructure/http"
	"github.com/taskward/taskward/internal/infrastructure/http/handlers"
	"github.com/taskward/taskward/internal/infrastructure/http/middleware"
	"github.com/taskward/taskward/internal/infrastructure/lockout"
	"github.com/taskward/taskward/internal/infrastructure/persistence/postgres"
	"github.com/taskward/taskward/internal/infrastructure/queue"
	"github.com/taskward/taskward/internal/infrastructure/security"
	"github.com/taskward/taskward/internal/infrastructure/webhook"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	userRepo := postgres.NewUserRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)

	var enqueuer ports.EventEnqueuer
	var worker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq, err := queue.NewAsynqEnqueuer(asynqOpt, log)
		if err != nil {
			log.Fatal().Err(err).Msg("create asynq enqueuer")
		}
		defer asynqEnq.Close()
		enqueuer = asynqEnq

		var emitter ports.WebhookEmitter
		if cfg.Webhook.URL != "" {
			emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL)
		}
		worker = queue.NewWorker(asynqOpt, emitter, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		enqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  16,
		KeyLength:   32,
	})

	issuer, err := infraauth.NewTokenIssuer(
		[]byte(cfg.JWT.Secret),
		cfg.JWT.Issuer,
		time.Duration(cfg.JWT.TTL)*time.Second,
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create token issuer")
	}

	lockoutStore := lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds)

	registerUC := appauth.NewRegister(userRepo, hasher, issuer)
	loginUC, err := appauth.NewLogin(userRepo, hasher, issuer, lockoutStore)
	if err != nil {
		log.Fatal().Err(err).Msg("create login use case")
	}
	changePasswordUC := appauth.NewChangePassword(userRepo, hasher)
	taskSvc := tasks.NewService(taskRepo)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   handlers.NewAuthHandler(registerUC, loginUC, changePasswordUC, enqueuer, log),
		UsersHandler:  handlers.NewUsersHandler(userRepo),
		TasksHandler:  handlers.NewTasksHandler(taskSvc, log),
		HealthHandler: handlers.NewHealthHandler(pool, redisClient),
		RequireAuth:   middleware.NewAuthValidator(issuer).Handler,
		Log:           log,
		Secure:        middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment)),
		CORS:          middleware.CORS(cfg.CORS.AllowedOrigins),
		IPRateLimit:   ipLimit,
		Metrics:       true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
