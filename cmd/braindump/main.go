// Package main implements the braindump CLI: extract tasks, habits, events
// and sleep entries from free text, or serve the same over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fyrsmithlabs/braindump/internal/braindump"
	"github.com/fyrsmithlabs/braindump/internal/cache"
	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/keyring"
	"github.com/fyrsmithlabs/braindump/internal/logging"
	"github.com/fyrsmithlabs/braindump/internal/secrets"
	"github.com/fyrsmithlabs/braindump/internal/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	configPath string

	cfg      *config.Config
	logger   *logging.Logger
	scrubber  secrets.Scrubber
	cache     *cache.Cache
	service   *braindump.Service
	telemetry *telemetry.Telemetry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "braindump",
		Short: "Turn a brain dump into tasks, habits, events and sleep entries",
		Long: `braindump sends unstructured notes to an LLM backend (Anthropic, OpenAI or
Groq) and prints the extracted records as JSON.

Configuration is read from ~/.config/braindump/config.yaml and BRAINDUMP_*
environment variables. API keys may be kept in the OS keyring instead of
the config file; see "braindump auth".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/braindump/config.yaml)")

	root.AddCommand(
		newProcessCmd(a),
		newModelsCmd(a),
		newServeCmd(a),
		newAuthCmd(),
	)
	return root
}

// load reads configuration and wires the service.
func (a *app) load(ctx context.Context) error {
	cfg, err := config.LoadWithFile(a.configPath)
	if err != nil {
		return err
	}

	logCfg, err := logging.ConfigFrom(cfg.Logging)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return err
	}

	tel, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg.Telemetry, version))
	if err != nil {
		return err
	}
	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.String("reason", h.Reason))
	}

	scrubber, err := secrets.New(&secrets.Config{
		Enabled:       cfg.Secrets.Enabled,
		Deep:          cfg.Secrets.Deep,
		AllowListFile: cfg.Secrets.AllowListFile,
	})
	if err != nil {
		return fmt.Errorf("secret scrubber: %w", err)
	}

	c := cache.New(cache.Config{
		TTL:        cfg.Cache.TTL.Duration(),
		MaxEntries: cfg.Cache.MaxEntries,
	}, cache.WithMetrics(cache.DefaultMetrics()))

	a.cfg = cfg
	a.logger = logger
	a.telemetry = tel
	a.scrubber = scrubber
	a.cache = c
	a.service = braindump.NewService(extraction.DefaultRegistry(nil), c,
		braindump.WithLogger(logger),
		braindump.WithScrubber(scrubber),
		braindump.WithMetrics(braindump.DefaultMetrics()),
	)
	return nil
}

// close flushes telemetry and logs.
func (a *app) close() {
	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(context.Background()); err != nil && a.logger != nil {
			a.logger.Warn(context.Background(), "telemetry shutdown failed", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// aiConfig returns the configured AI settings with the credential filled
// from the keyring when the config carries none.
func (a *app) aiConfig() config.AIConfig {
	ai := a.cfg.AI
	if !ai.APIKey.IsSet() && ai.Backend != extraction.BackendNone {
		if key, err := keyring.GetAPIKey(ai.Backend); err == nil {
			ai.APIKey = config.Secret(key)
		}
	}
	return ai
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		raw []byte
		err error
	)
	if len(args) == 0 || args[0] == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", errors.New("no text to process")
	}
	return text, nil
}

// parseBackendArg validates a backend named on the command line.
func parseBackendArg(s string) (extraction.Backend, error) {
	b, ok := extraction.ParseBackend(s)
	if !ok || b == extraction.BackendNone {
		names := make([]string, 0, len(extraction.Backends()))
		for _, b := range extraction.Backends() {
			names = append(names, string(b))
		}
		return "", fmt.Errorf("unknown backend %q (must be one of %s)", s, strings.Join(names, ", "))
	}
	return b, nil
}
