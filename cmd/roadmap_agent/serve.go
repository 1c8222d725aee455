package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/logging"
	"github.com/jonathan/upskill-roadmap/internal/server"
	"github.com/jonathan/upskill-roadmap/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the analyze, roadmap and account endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		if jwtSecret, err = config.RandomSecret(); err != nil {
			return err
		}
		logger.Warn("JWT_SECRET not set; using a random secret, tokens will not survive a restart")
	}
	jwtConfig, err := config.NewJWTConfig(jwtSecret, cfg.Auth.JWTExpirationHours)
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig(cfg.Auth.BcryptCost, cfg.Auth.PasswordPepper)
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	a, err := buildApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	srv, err := server.New(server.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, server.Deps{
		Pipeline: a.orchestrator,
		Users:    store.NewMemoryUsers(),
		JWT:      jwtConfig,
		Password: passwordConfig,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Server.Port),
		zap.String("roadmap_generator", cfg.Roadmap.Generator),
		zap.Bool("search", cfg.SearchConfigured()))

	return srv.Start(cmd.Context())
}
