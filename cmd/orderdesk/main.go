// Package main provides the orderdesk binary: the HTTP API server plus
// operator commands for migrations, demo data and manual transitions.
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

	"github.com/diewo77/orderdesk/internal/config"
	"github.com/diewo77/orderdesk/internal/db"
	"github.com/diewo77/orderdesk/internal/logging"
	"github.com/diewo77/orderdesk/internal/metrics"
	"github.com/diewo77/orderdesk/internal/models"
	"github.com/diewo77/orderdesk/internal/policy"
	"github.com/diewo77/orderdesk/internal/repository"
	"github.com/diewo77/orderdesk/internal/services"
	"github.com/diewo77/orderdesk/internal/store"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
	appName = "orderdesk"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env bundles what every subcommand needs.
type env struct {
	cfg *config.Config
	log *logrus.Logger
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		e          env
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Order fulfilment desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load environment variables from .env file
			_ = godotenv.Load()

			if configPath == "" {
				configPath = os.Getenv("ORDERDESK_CONFIG")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.log = logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(
		serveCmd(&e),
		migrateCmd(&e),
		resetCmd(&e),
		deriveCmd(&e),
		advanceCmd(&e),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			// version needs no config
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

// openRepository opens the configured store and wraps it in a repository.
// The caller closes the returned store.
func openRepository(ctx context.Context, e *env, opts ...repository.Option) (*repository.Repository, store.Store, error) {
	s, err := store.Open(ctx, e.cfg, e.log)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", e.cfg.Store.Driver, err)
	}
	opts = append([]repository.Option{repository.WithSeedOnEmpty(e.cfg.App.SeedOnEmpty)}, opts...)
	return repository.New(s, e.log, opts...), s, nil
}

func serveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo, s, err := openRepository(ctx, e, repository.WithLoadHook(services.Deriver{}.Hook))
			if err != nil {
				return err
			}
			defer s.Close()

			// Bring derived records in line before the first request.
			if err := repo.Sync(ctx); err != nil {
				return fmt.Errorf("initial sync: %w", err)
			}

			reg := prometheus.NewRegistry()
			routerCfg := policy.NewRouterConfig(repo, e.cfg, e.log, metrics.New(reg))

			srv := &http.Server{
				Addr:         ":" + e.cfg.Server.Port,
				Handler:      withLogging(e.log, NewApp(routerCfg, reg, e.log)),
				ReadTimeout:  time.Duration(e.cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(e.cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(e.cfg.Server.IdleTimeout) * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.log.WithFields(logrus.Fields{
					"port":  e.cfg.Server.Port,
					"store": e.cfg.Store.Driver,
					"dev":   e.cfg.App.Dev,
				}).Info("server starting")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			e.log.Info("shutdown signal received")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			e.log.Info("server stopped gracefully")
			return nil
		},
	}
}

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the document table for SQL store drivers",
		RunE: func(cmd *cobra.Command, args []string) error {
			dialector, err := db.Dialector(e.cfg.Store, e.cfg.Database)
			if err != nil {
				return err
			}
			conn, err := db.Connect(dialector, e.log)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(conn); err != nil {
					e.log.WithError(err).Warn("close database")
				}
			}()
			if err := db.Migrate(conn); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			e.log.WithField("store", e.cfg.Store.Driver).Info("migrations completed")
			return nil
		},
	}
}

func resetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace every collection with the demo data set",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, s, err := openRepository(cmd.Context(), e, repository.WithLoadHook(services.Deriver{}.Hook))
			if err != nil {
				return err
			}
			defer s.Close()
			if err := repo.Reset(cmd.Context()); err != nil {
				return err
			}
			e.log.Info("store reset to demo data")
			return nil
		},
	}
}

func deriveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "derive",
		Short: "Regenerate design tasks and shipments from orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No load hook here so the pass below reports what it changed.
			repo, s, err := openRepository(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer s.Close()

			var res services.DerivationResult
			err = repo.Update(cmd.Context(), func(snap *repository.Snapshot) error {
				res = services.Deriver{}.Derive(snap)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tasks: %d created, %d updated; shipments: %d created, %d updated\n",
				res.TasksCreated, res.TasksUpdated, res.ShipmentsCreated, res.ShipmentsUpdated)
			return nil
		},
	}
}

func advanceCmd(e *env) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "advance <order-id> <status>",
		Short: "Move an order to the next status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, s, err := openRepository(cmd.Context(), e, repository.WithLoadHook(services.Deriver{}.Hook))
			if err != nil {
				return err
			}
			defer s.Close()

			routerCfg := policy.NewRouterConfig(repo, e.cfg, e.log, nil)
			tr, err := routerCfg.OrderService.AdvanceStatus(cmd.Context(), args[0], models.OrderStatus(args[1]), role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s (%s)\n", tr.OrderID, tr.From, tr.To, tr.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "admin", "Role to act as")
	return cmd
}
