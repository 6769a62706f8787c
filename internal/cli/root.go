// Package cli implements sitesearchctl, the operator command line for the
// search engine behind the site search API.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/config"
	"github.com/kailas-cloud/sitesearch/internal/engine"
	"github.com/kailas-cloud/sitesearch/internal/engine/solr"
	logpkg "github.com/kailas-cloud/sitesearch/internal/logger"
)

type rootOptions struct {
	configPath string
	solrURL    string
	logLevel   string

	// store replaces the engine built from flags, for tests.
	store engine.Store
}

// New creates the root command.
func New() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(o *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sitesearchctl <command> [flags]",
		Short:         "Site search operator tool",
		Long:          "Inspect metadata, plan queries and export results straight from the search engine.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
			$ sitesearchctl categories --project PlasmoDB
			$ sitesearchctl plan --request query.json
			$ sitesearchctl export --request query.json > ids.tsv
			$ sitesearchctl ping --solr-url http://localhost:8983/solr/site_search
		`),
	}

	rootCmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file with the solr section")
	rootCmd.PersistentFlags().StringVar(&o.solrURL, "solr-url", "", "solr core URL, overrides the config file")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (default warn)")

	rootCmd.AddCommand(
		categoriesCmd(o),
		planCmd(o),
		exportCmd(o),
		pingCmd(o),
		versionCmd(),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	cmd := New()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if o.solrURL != "" {
		cfg.Solr.URL = o.solrURL
	}
	cfg.ApplyDefaults()
	if cfg.Solr.URL == "" {
		return config.Config{}, errors.New("no solr URL: pass --solr-url or --config")
	}
	return cfg, nil
}

// connect returns the engine and a settings snapshot. The caller closes the engine.
func (o *rootOptions) connect(ctx context.Context) (engine.Store, config.Config, *zap.Logger, error) {
	log, err := logpkg.NewLogger("cli", o.logLevel)
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	if o.store != nil {
		var cfg config.Config
		cfg.ApplyDefaults()
		return o.store, cfg, log, nil
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	client, err := solr.NewClient(solr.Config{
		URL:        cfg.Solr.URL,
		Timeout:    time.Duration(cfg.Solr.TimeoutSec) * time.Second,
		MaxRetries: cfg.Solr.MaxRetries,
		Logger:     log,
	})
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	if err := client.WaitForReady(ctx, time.Duration(cfg.Solr.ReadinessTimeout)*time.Second); err != nil {
		client.Close()
		return nil, config.Config{}, nil, err
	}
	return client, cfg, log, nil
}

// readRequest reads a JSON request body from a file, or stdin for "-".
func readRequest(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return data, nil
}
