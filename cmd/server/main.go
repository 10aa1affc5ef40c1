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

	"atenciones-backend/internal/app"
	"atenciones-backend/internal/archive"
	"atenciones-backend/internal/cache"
	"atenciones-backend/internal/config"
	"atenciones-backend/internal/database"
	"atenciones-backend/internal/db"
	"atenciones-backend/internal/health"
	"atenciones-backend/internal/logger"
	"atenciones-backend/internal/repositories"
	"atenciones-backend/internal/repositories/memory"
	"atenciones-backend/internal/seed"
	"atenciones-backend/internal/services"
	"atenciones-backend/internal/timeutil"
	"atenciones-backend/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "atenciones-backend"

// env holds what every subcommand needs after bootstrap
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string
	rt := &env{}

	rootCmd := &cobra.Command{
		Use:           "atenciones",
		Short:         "Agricultural extension visit records API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.bootstrap(configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file (default configs/config.yaml)")

	rootCmd.AddCommand(
		serveCommand(rt),
		migrateCommand(rt),
		seedCommand(rt),
	)
	return rootCmd
}

func (rt *env) bootstrap(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	if err := timeutil.SetZone(cfg.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	rt.cfg = cfg
	rt.logger = log
	return nil
}

func serveCommand(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return rt.serve(ctx)
		},
	}
}

func migrateCommand(rt *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations to PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := db.Connect(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			return rt.migrate(cmd.Context(), pool)
		},
	}
}

func seedCommand(rt *env) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data and sample records into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.Store.Driver != config.DriverPostgres {
				return errors.New("seed only applies to the postgres store; the memory store seeds on start")
			}
			pool, err := db.Connect(cmd.Context(), rt.cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := rt.migrate(cmd.Context(), pool); err != nil {
				return err
			}
			if file == "" {
				file = rt.cfg.Seed.File
			}
			return rt.seed(cmd.Context(), repositories.NewPostgresStore(pool), file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed YAML file (default: embedded sample data)")
	return cmd
}

func (rt *env) migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".", rt.logger)
	applied, err := migrator.RunMigrations(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	rt.logger.Info("Migrations complete", zap.Int("applied", applied))
	return nil
}

func (rt *env) seed(ctx context.Context, store repositories.Store, file string) error {
	data, err := seed.Load(file)
	if err != nil {
		return err
	}
	res, err := seed.Apply(ctx, store, data, rt.logger)
	if err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	rt.logger.Info("Seed complete", zap.Int("inserted", res.Inserted), zap.Int("skipped", res.Skipped))
	return nil
}

func (rt *env) serve(ctx context.Context) error {
	cfg, log := rt.cfg, rt.logger

	var (
		store repositories.Store
		pool  *pgxpool.Pool
		// stays a nil interface for the memory store
		pinger health.Pinger
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		var err error
		pool, err = db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := rt.migrate(ctx, pool); err != nil {
			return err
		}
		store = repositories.NewPostgresStore(pool)
		pinger = pool
		if cfg.Seed.OnStart {
			if err := rt.seed(ctx, store, cfg.Seed.File); err != nil {
				return err
			}
		}
	default:
		store = memory.NewStore()
		if err := rt.seed(ctx, store, cfg.Seed.File); err != nil {
			return err
		}
	}
	log.Info("Store ready", zap.String("driver", cfg.Store.Driver))

	c := cache.New(nil)
	if cfg.Redis.Enabled {
		client, err := cache.Connect(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, using in-process cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			c = cache.New(client)
			log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}
	defer c.Close()

	archiver, err := archive.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}

	a, err := app.New(ctx, app.Deps{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		DB:       pinger,
		Cache:    c,
		Archiver: archiver,
	})
	if err != nil {
		return err
	}

	collector := services.NewMetricsCollector(store, pool, log, services.DefaultCollectInterval)
	collector.Start()
	defer collector.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           a.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.RequestTimeoutSec) * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
