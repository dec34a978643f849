package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

type options struct {
	configPath     string
	model          string
	prompt         string
	outputFormat   string
	includePartial bool
	sessionID      string
	sessionDir     string
	noSession      bool
	verbose        bool
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "loom",
		Short:         "Stream LLM backends into a typed message protocol",
		Long:          "loom talks to OpenAI-compatible backends, normalizes their streams into canonical events, and assembles those into the typed message protocol consumed by frontends.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(runCmd())
	return cmd
}

func runCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send one prompt and emit the resulting messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.prompt == "" {
				return fmt.Errorf("a prompt is required (-p)")
			}
			switch opts.outputFormat {
			case "text", "json", "stream-json":
			default:
				return fmt.Errorf("unknown output format %q", opts.outputFormat)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runPrompt(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a loom config file")
	cmd.Flags().StringVar(&opts.model, "model", "", "model to use (overrides config)")
	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", "", "prompt to send")
	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "text", "text, json, or stream-json")
	cmd.Flags().BoolVar(&opts.includePartial, "include-partial-messages", false, "emit partial stream events (stream-json only)")
	cmd.Flags().StringVar(&opts.sessionID, "session-id", "", "session identifier (random if empty)")
	cmd.Flags().StringVar(&opts.sessionDir, "session-dir", "", "session storage directory")
	cmd.Flags().BoolVar(&opts.noSession, "no-session", false, "disable session persistence")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log backend calls to stderr")
	return cmd
}
