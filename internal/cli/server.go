package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"compboard/internal/app"
	"compboard/internal/auth"
	"compboard/internal/config"
	"compboard/internal/infra/memory"
	"compboard/internal/infra/postgres"
	redisinfra "compboard/internal/infra/redis"
	transport "compboard/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the leaderboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		teamRepo     app.TeamRepository
		subRepo      app.SubmissionRepository
		settingsRepo app.SettingsRepository
		qaRepo       app.QARepository
	)
	if pool != nil {
		teamRepo = postgres.NewTeamRepository(pool)
		subRepo = postgres.NewSubmissionRepository(pool)
		settingsRepo = postgres.NewSettingsRepository(pool)
		qaRepo = postgres.NewQARepository(pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores")
		teams := memory.NewTeamStore()
		teamRepo = teams
		subRepo = memory.NewSubmissionStore(teams)
		settingsRepo = memory.NewSettingsStore()
		qaRepo = memory.NewQAStore(teams)
	}

	tokenTTL := config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL)
	tokens := auth.NewTokenService(cfg.Auth.Secret, "compboard", tokenTTL)

	hub := app.NewUpdateHub()
	w1, w2, wIRL := cfg.Weights()
	weights := app.Weights{Task1: w1, Task2: w2, IRL: wIRL}

	boardSvc := app.NewLeaderboardService(teamRepo, subRepo, settingsRepo, weights, nil, hub)

	var boards transport.BoardProvider = boardSvc
	if redisClient != nil {
		cacheTTL := config.TTLDuration(cfg.Board.CacheTTL, 30*time.Second)
		cache := redisinfra.NewBoardCache(redisClient, boardSvc, cacheTTL)
		boardSvc.SetBoardCache(cache)
		boards = cache
	}

	authSvc := app.NewAuthService(teamRepo, tokens)
	subSvc := app.NewSubmissionService(subRepo, boardSvc)
	teamSvc := app.NewTeamService(teamRepo, subRepo, boardSvc)
	qaSvc := app.NewQAService(qaRepo)

	server := transport.NewServer(authSvc, boards, boardSvc, subSvc, teamSvc, qaSvc, tokens, hub)

	httpServer := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("starting leaderboard server on :%s", finalPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		select {
		case <-stop:
			log.Println("shutting down server...")
		case <-groupCtx.Done():
			log.Println("context canceled, shutting down server...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
