package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ojt-matcher/internal/catalog"
	"github.com/jonathan/ojt-matcher/internal/config"
	"github.com/jonathan/ojt-matcher/internal/db"
	"github.com/jonathan/ojt-matcher/internal/notify"
	"github.com/jonathan/ojt-matcher/internal/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes matching, application, DTR and progress endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if serveMigrate {
		if _, err := database.Migrate(ctx, logger); err != nil {
			database.Close()
			return err
		}
	}

	cat, err := catalog.Load(ctx, database)
	if err != nil {
		database.Close()
		return err
	}

	srv := server.New(server.Config{
		Port:     cfg.Port,
		PageSize: cfg.PageSize,
		JWT:      jwtCfg,
		Notifier: notify.NewDispatcher(newNotifier(cfg, logger), logger),
		Catalog:  cat,
		Logger:   logger,
	}, database)

	return srv.Start()
}

// newNotifier sends mail when notifications are enabled and a relay is
// configured, and only logs otherwise.
func newNotifier(cfg config.Config, logger zerolog.Logger) notify.Notifier {
	if !cfg.NotificationsEnabled || cfg.SMTPHost == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUser,
		Password:  cfg.SMTPPassword,
		FromName:  "OJT Coordinator",
		FromEmail: cfg.SMTPFrom,
	}, logger)
}
