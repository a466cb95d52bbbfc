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

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	memoryMode bool
	tokenSub   string
	tokenTTL   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "farmledger",
	Short: "Crop and farm-input ledger API",
	Long: `farmledger serves the farmer dashboard API: crop and resource ledgers,
the farmer profile, SMS alerts and proxies to the prediction service.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		app, err := newApp(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		defer app.close(context.Background())
		log.Info("indexes ready", zap.String("db", cfg.MongoDB))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token with IDENTITY_JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		tok, err := signToken(cfg.Identity.JWTSecret, cfg.Identity.Issuer, tokenSub, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.Flags().BoolVar(&memoryMode, "memory", false, "keep ledgers in memory instead of MongoDB")
	serveCmd.Flags().BoolVar(&memoryMode, "memory", false, "keep ledgers in memory instead of MongoDB")
	tokenCmd.Flags().StringVar(&tokenSub, "sub", "", "subject (owner identity)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("sub")

	rootCmd.AddCommand(serveCmd, indexesCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (Config, *zap.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return Config{}, nil, err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, log, nil
}

func newLogger(cfg LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	var app *App
	if memoryMode {
		app, err = newMemoryApp(cfg, log)
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		app, err = newApp(ctx, cfg, log)
		cancel()
	}
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer app.close(context.Background())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	log.Info("farmledger API listening", zap.String("addr", srv.Addr), zap.Bool("memory", memoryMode))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
