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

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/config"
	dbpkg "github.com/BruksfildServices01/barberia/internal/db"
	"github.com/BruksfildServices01/barberia/internal/logger"
	"github.com/BruksfildServices01/barberia/internal/media"
	"github.com/BruksfildServices01/barberia/internal/metrics"
	"github.com/BruksfildServices01/barberia/internal/payments"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/routes"
	"github.com/BruksfildServices01/barberia/internal/session"
	"github.com/BruksfildServices01/barberia/internal/whatsapp"
)

const auditBuffer = 1024

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "barberia",
		Short:         "API de gestión de barberías",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "arquivo de configuração TOML")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Sobe a API HTTP",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Aplica o schema no banco e sai",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(configPath)
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}

func migrate(configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db, log); err != nil {
		return err
	}

	log.Info("migrations applied")
	return nil
}

func serve(ctx context.Context, configPath string) error {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// ======================================================
	// 🗄️ BANCO
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	if err := dbpkg.Migrate(db, log); err != nil {
		return err
	}

	// ======================================================
	// 🔌 INTEGRAÇÕES (todas opcionais)
	// ======================================================
	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    log,
	}

	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}

		deps.Sessions = session.NewRedisStore(rdb)
		deps.Broker = realtime.NewRedisBroker(rdb)
		log.Info("redis enabled")
	} else {
		deps.Sessions = session.NewMemoryStore()
		deps.Broker = realtime.NewMemoryBroker()
		log.Warn("redis disabled, using in-memory sessions and events")
	}

	dispatcher := audit.NewDispatcher(audit.New(db), log, auditBuffer)
	deps.Audit = dispatcher

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.New("barberia")
	}

	if cfg.S3.Bucket != "" {
		deps.Uploader = media.NewS3Uploader(cfg.S3)
	}

	if cfg.WhatsApp.Token != "" {
		deps.WhatsApp = whatsapp.NewClient(cfg.WhatsApp.APIBaseURL, cfg.WhatsApp.Token, 10*time.Second, log)
	}

	if cfg.MP.AccessToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MP.AccessToken, cfg.MP.NotificationURL, cfg.MP.SuccessURL)
		if err != nil {
			return fmt.Errorf("mercadopago: %w", err)
		}
		deps.Payments = mp
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// auditoria pendente é gravada antes de sair
	dispatcher.Close()

	return err
}
