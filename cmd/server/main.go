package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/config"
	"reliefCoordination/internal/db"
	grpcserver "reliefCoordination/internal/grpc"
	"reliefCoordination/internal/httpapi"
	"reliefCoordination/internal/metrics"
	"reliefCoordination/internal/relief"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

var (
	configPath string
	devMode    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "reliefd",
	Short:         "Relief coordination backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		load := config.Load
		if devMode {
			load = config.LoadWithDefaults
		}
		var err error
		if cfg, err = load(configPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logger, err = newLogger(cfg.Log); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC API and the ops HTTP listener",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	logger.Info("configuration loaded", zap.Stringer("config", cfg))

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close db", zap.Error(err))
		}
	}()

	store := repository.NewStore(d)
	m := metrics.New()
	svc := relief.NewService(store, relief.OptionsFromConfig(cfg), logger.Named("relief"), m)

	stopGRPC, err := grpcserver.StartGRPC(cfg, grpcserver.Deps{
		Service: svc,
		Users:   store.Users,
		Logger:  logger.Named("grpc"),
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("start grpc: %w", err)
	}
	logger.Info("gRPC server listening", zap.String("address", cfg.GRPC.Address))

	stopHTTP, err := httpapi.Start(cfg.HTTP.Address, httpapi.NewRouter(d, m.Registry(), logger.Named("http")), logger)
	if err != nil {
		_ = stopGRPC(context.Background())
		return fmt.Errorf("start http: %w", err)
	}
	logger.Info("http listening", zap.String("address", cfg.HTTP.Address))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var g errgroup.Group
	g.Go(func() error { return stopGRPC(shutdownCtx) })
	g.Go(func() error { return stopHTTP(shutdownCtx) })
	return g.Wait()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer d.Close()
		v, err := db.Version(cmd.Context(), d)
		if err != nil {
			return err
		}
		logger.Info("schema up to date", zap.Int("version", v))
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Connect(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := db.RollbackLast(cmd.Context(), d); err != nil {
			return err
		}
		v, err := db.Version(cmd.Context(), d)
		if err != nil {
			return err
		}
		logger.Info("rolled back", zap.Int("version", v))
		return nil
	},
}

var (
	tokenName string
	tokenKind string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := auth.Sign(cfg.Auth.JWTSecret, tokenName, tokenKind, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

var (
	userName  string
	userRoles []string
)

var userAddCmd = &cobra.Command{
	Use:   "add-user",
	Short: "Create a user with the given roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := db.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer d.Close()
		roles := make([]models.Role, 0, len(userRoles))
		for _, r := range userRoles {
			roles = append(roles, models.Role(r))
		}
		u, err := repository.NewUserRepository(d).Create(cmd.Context(), userName, roles...)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		logger.Info("user created", zap.Int64("id", u.ID), zap.String("username", u.Username), zap.Strings("roles", userRoles))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (or set CONFIG_FILE)")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Fall back to a development JWT secret")

	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Username (required)")
	tokenCmd.Flags().StringVar(&tokenKind, "kind", "", "admin, rescuer or citizen (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime; 0 for no expiry")
	_ = tokenCmd.MarkFlagRequired("name")
	_ = tokenCmd.MarkFlagRequired("kind")

	userAddCmd.Flags().StringVar(&userName, "username", "", "Username (required)")
	userAddCmd.Flags().StringSliceVar(&userRoles, "role", []string{"citizen"}, "Role to grant; repeatable")
	_ = userAddCmd.MarkFlagRequired("username")

	migrateCmd.AddCommand(migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd, userAddCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
