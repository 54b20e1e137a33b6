package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coolbeans/bwbnav/pkg/bwb"
	"github.com/coolbeans/bwbnav/pkg/catalog"
	"github.com/coolbeans/bwbnav/pkg/config"
)

var version = "0.1.0"

// app carries everything the subcommands share. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	viper   *viper.Viper
	config  config.Config
	logger  *slog.Logger
	client  *bwb.Client
	catalog *catalog.Catalog

	// httpClient replaces the connector's default transport when set.
	httpClient bwb.HTTPClient
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&app{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(application *app) *cobra.Command {
	application.viper = config.New()

	rootCmd := &cobra.Command{
		Use:   "bwbnav",
		Short: "Navigate Dutch legislation from the BWB repository",
		Long: `bwbnav resolves a regulation in the Basiswettenbestand (BWB) to its
latest published version and shows its chapter outline.

A regulation can be named by its BWB identifier or by its description in
the catalog:
  bwbnav outline BWBR0044767
  bwbnav outline "Regeling kansspelen op afstand"`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return application.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./bwbnav.yaml or ~/.config/bwbnav/bwbnav.yaml)")
	flags.String("base-url", bwb.DefaultBaseURL, "BWB repository root")
	flags.Duration("timeout", bwb.DefaultTimeout, "per-request timeout")
	flags.String("user-agent", "", "User-Agent header (default: none)")
	flags.String("catalog", "", "catalog YAML file (default: built-in catalog)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")

	for flagName, key := range map[string]string{
		"base-url":   "base_url",
		"timeout":    "timeout",
		"user-agent": "user_agent",
		"catalog":    "catalog_file",
		"log-level":  "log_level",
		"log-format": "log_format",
	} {
		_ = application.viper.BindPFlag(key, flags.Lookup(flagName))
	}

	rootCmd.AddCommand(catalogCmd(application))
	rootCmd.AddCommand(resolveCmd(application))
	rootCmd.AddCommand(outlineCmd(application))
	rootCmd.AddCommand(pagesCmd(application))
	rootCmd.AddCommand(showCmd(application))

	return rootCmd
}

// setup loads configuration and builds the logger, connector and catalog.
func (application *app) setup(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(application.viper, configPath)
	if err != nil {
		return err
	}
	application.config = cfg

	level, _ := cfg.SlogLevel()
	handlerOptions := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		application.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), handlerOptions))
	} else {
		application.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), handlerOptions))
	}

	clientConfig := cfg.ClientConfig()
	if application.httpClient != nil {
		clientConfig.HTTPClient = application.httpClient
	}
	application.client = bwb.NewClient(clientConfig)

	application.catalog, err = catalog.Open(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}

	application.logger.Debug("configured",
		"base_url", cfg.BaseURL,
		"timeout", cfg.Timeout,
		"catalog_file", cfg.CatalogFile,
		"catalog_entries", application.catalog.Len())
	return nil
}

// identifierFor maps a command argument to a BWB identifier: a catalog
// identifier or description, or else the argument itself.
func (application *app) identifierFor(target string) bwb.DocumentIdentifier {
	if entry, found := application.catalog.Lookup(target); found {
		return entry.Identifier
	}
	application.logger.Debug("target not in catalog, using it as identifier", "target", target)
	return bwb.DocumentIdentifier(target)
}

// loadDocument resolves target and extracts its outline, logging the outcome.
func (application *app) loadDocument(ctx context.Context, target string) (*bwb.Document, error) {
	identifier := application.identifierFor(target)

	document, err := application.client.LoadDocument(ctx, identifier)
	if err != nil {
		application.logger.Error("failed to load document", "identifier", identifier, "error", err)
		return nil, err
	}

	application.logger.Info("loaded document",
		"identifier", identifier,
		"content_location", document.ContentLocation,
		"chapters", document.Outline.Len())
	return document, nil
}
