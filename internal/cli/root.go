// Package cli implements the examctl command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"mocktest-engine/internal/app"
	"mocktest-engine/internal/config"
	"mocktest-engine/internal/domain"
	"mocktest-engine/internal/logger"
	"mocktest-engine/internal/seed"

	"github.com/spf13/cobra"
)

// Opener builds the application a command runs against.
type Opener func(ctx context.Context, opts *RootOptions) (*app.App, error)

// RootOptions are the persistent flags shared by every command.
type RootOptions struct {
	ConfigPath    string
	Memory        bool
	QuestionsPath string
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd(OpenApp).ExecuteContext(ctx)
}

// NewRootCmd assembles the command tree. open is called lazily by each command.
func NewRootCmd(open Opener) *cobra.Command {
	opts := &RootOptions{}
	envConfig := os.Getenv("EXAMCTL_CONFIG")

	cmd := &cobra.Command{
		Use:           "examctl",
		Short:         "Generate mock tests, manage rank tables and read leaderboards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().BoolVar(&opts.Memory, "memory", false, "use an in-process store instead of the configured database")
	cmd.PersistentFlags().StringVar(&opts.QuestionsPath, "questions", "", "JSON question pool to load before running")

	withApp := func(run func(cmd *cobra.Command, a *app.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return run(cmd, a)
		}
	}

	cmd.AddCommand(newBlueprintCmd(withApp))
	cmd.AddCommand(newGenerateCmd(withApp))
	cmd.AddCommand(newRankTableCmd(withApp))
	cmd.AddCommand(newLeaderboardCmd(withApp))
	return cmd
}

type appRunner func(run func(cmd *cobra.Command, a *app.App) error) func(*cobra.Command, []string) error

// OpenApp loads configuration, initializes logging and wires the application.
func OpenApp(ctx context.Context, opts *RootOptions) (*app.App, error) {
	cfg, err := config.LoadConfigFrom(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := app.New(cfg, app.Options{Memory: opts.Memory, Logger: logger.Get()})
	if err != nil {
		return nil, err
	}
	if opts.QuestionsPath != "" {
		if err := loadQuestions(ctx, a, opts.QuestionsPath); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func loadQuestions(ctx context.Context, a *app.App, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open question pool: %w", err)
	}
	defer f.Close()

	questions, err := seed.Decode(f)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, a.Repos.Questions, a.Repos.Transaction, questions, logger.Get())
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatError renders an error for the terminal, including domain error details.
func FormatError(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		out := fmt.Sprintf("%s: %s", de.Code, de.Message)
		if len(de.Context) > 0 {
			if raw, jerr := json.MarshalIndent(de.Context, "", "  "); jerr == nil {
				out += "\n" + string(raw)
			}
		}
		return out
	}
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		out := "invalid input:"
		for _, v := range verrs {
			out += fmt.Sprintf("\n  %s: %s", v.Field, v.Message)
		}
		return out
	}
	return err.Error()
}
