package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mythicalprogrammer/exRPG/internal/config"
	"github.com/mythicalprogrammer/exRPG/internal/llm"
	"github.com/mythicalprogrammer/exRPG/internal/llm/provider"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	var debug bool
	root := &cobra.Command{
		Use:           "exrpgctl",
		Short:         "Operator tools for the exRPG workout service",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load() // optional

			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output to stderr")
	root.AddCommand(newCheckModelCmd(), newPromptCmd(), newExtractCmd())
	return root
}

func newCheckModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-model",
		Short: "Verify MODEL_PATH and that llama-server is healthy",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return checkModel(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func checkModel(ctx context.Context, out io.Writer, cfg *config.Config) error {
	p, err := provider.NewLlamaCppProvider(
		provider.WithModelPath(cfg.ModelPath),
		provider.WithBaseURL(cfg.LlamaServerURL),
		provider.WithAPIKey(cfg.LlamaAPIKey),
	)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	if err := p.Validate(); err != nil {
		return fmt.Errorf("model not found at %q: %w", cfg.ModelPath, err)
	}
	fmt.Fprintf(out, "model found at %s\n", cfg.ModelPath)

	if err := p.Ping(ctx, cfg.LlamaProbeRetries, slog.Default()); err != nil {
		return fmt.Errorf("llama server at %s: %w", cfg.LlamaServerURL, err)
	}
	fmt.Fprintf(out, "llama server healthy at %s\n", cfg.LlamaServerURL)
	return nil
}

func newPromptCmd() *cobra.Command {
	var req workout.WorkoutRequest
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt sent to the model for a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(req.Name) == "" {
				return fmt.Errorf("--name is required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), llm.BuildPrompt(req))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "name of the person asking")
	cmd.Flags().StringVar(&req.Prompt, "prompt", "", "free-text workout request")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract a workout plan from raw model output (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close() //nolint:errcheck
				in = f
			}
			raw, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			res := workout.Extract(string(raw))
			slog.Debug("extracted", "source", res.Source.String(), "exercises", len(res.Plan.Exercises), "error", res.Err)
			return writePlan(cmd.OutOrStdout(), res, format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format: json or yaml")
	return cmd
}

type extractOutput struct {
	Source string              `json:"source" yaml:"source"`
	Error  string              `json:"error,omitempty" yaml:"error,omitempty"`
	Plan   workout.WorkoutPlan `json:"plan" yaml:"plan"`
}

func writePlan(w io.Writer, res workout.Result, format string) error {
	out := extractOutput{Source: res.Source.String(), Plan: res.Plan}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
