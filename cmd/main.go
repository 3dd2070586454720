package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/api"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/config"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/credits"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/credstore"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/logging"
	"github.com/stevenajg93/orla3-marketing-suite-app-sub001/internal/session"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "orla",
	Short:         "Command-line client for the Orla marketing suite",
	Long:          "Manage your Orla account, session and credits from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// storeFactory allows injecting an in-memory credential store in tests.
var storeFactory func() credstore.Store = func() credstore.Store {
	return credstore.NewSystemStore()
}

// app bundles everything a command needs. Commands build it lazily so that
// `orla version` and `orla init` work without valid configuration.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *api.Client
	store   credstore.Store
	session *session.Manager
	credits *credits.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.IsDev)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	store := storeFactory()
	client := api.NewClient(cfg.Server.URL,
		api.WithLogger(logger),
		api.WithDebug(cfg.Logging.Debug),
		api.WithTokenSource(session.NewTokenSource(store)),
	)
	mgr := session.NewManager(client, store, logger)
	client.SetAuthFailureFunc(mgr.HandleAuthFailure)

	if cfg.IsInsecure() {
		logger.Warn("server URL uses plain HTTP against a remote host",
			zap.String("url", cfg.Server.URL))
	}

	return &app{
		cfg:     cfg,
		log:     logger,
		client:  client,
		store:   store,
		session: mgr,
		credits: credits.NewService(client, logger),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
