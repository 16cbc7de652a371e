package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/cli"
	"github.com/mlorentedev/promptune/internal/config"
	"github.com/mlorentedev/promptune/internal/optimizer"
	"github.com/mlorentedev/promptune/internal/tone"
)

var (
	configPath string
	useMock    bool
)

var rootCmd = &cobra.Command{
	Use:   "promptune",
	Short: "Rewrite prompts in a chosen tone with a local Ollama model",
	Long: `promptune sends a prompt and a tone to a local Ollama server and prints
the rewritten prompt. Run without a subcommand for an interactive session,
or use "serve" to expose POST /optimize over HTTP.`,
	SilenceUsage: true,
	RunE:         runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "use the mock backend instead of Ollama")

	rootCmd.AddCommand(tonesCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var tonesCmd = &cobra.Command{
	Use:   "tones",
	Short: "List the recognized tones and their instructions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		reg, err := tone.New(cfg.ToneMode)
		if err != nil {
			return err
		}
		for _, e := range tone.Entries(reg) {
			fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s\n", e.Tone, e.Instruction)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that Ollama is reachable and the configured model is installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, opt, err := setup()
		if err != nil {
			return err
		}
		s := &cli.Session{Optimizer: opt, In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		return s.Check(cmd.Context())
	},
}

func runInteractive(cmd *cobra.Command, args []string) error {
	_, opt, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &cli.Session{Optimizer: opt, In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
	err = s.Run(ctx)
	if errors.Is(err, optimizer.ErrInvalidInput) || errors.Is(err, cli.ErrNotReady) {
		// Already reported to the user.
		return nil
	}
	return err
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if useMock {
		cfg.Backend = adapter.KindMock
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		return config.Config{}, err
	}
	slog.SetDefault(logger)
	return cfg, nil
}

// setup loads configuration and builds the optimizer it describes.
func setup() (config.Config, *optimizer.Optimizer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	reg, err := tone.New(cfg.ToneMode)
	if err != nil {
		return config.Config{}, nil, err
	}

	backend, err := adapter.New(cfg.Backend, cfg.OllamaURL, cfg.Model, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		return config.Config{}, nil, err
	}

	slog.Debug("backend configured",
		"backend", backend.Name(),
		"ollama_url", cfg.OllamaURL,
		"model", cfg.Model,
		"tone_mode", string(cfg.ToneMode),
	)
	return cfg, optimizer.New(backend, reg, cfg.Model), nil
}
