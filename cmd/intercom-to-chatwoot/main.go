package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/exileum/intercom-to-chatwoot/internal/config"
	"github.com/exileum/intercom-to-chatwoot/internal/migration"
)

type rootFlags struct {
	dryRun         bool
	verbose        bool
	nonInteractive bool
	envFile        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("Migration failed: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "intercom-to-chatwoot [flags] <start_id> <end_id>",
		Short: "Migrate Intercom conversations into a Chatwoot inbox",
		Long: `Migrate Intercom conversations with IDs from start_id to end_id (inclusive)
into a Chatwoot inbox.

Contacts are looked up by email and created when missing. Every conversation
is recreated with its opening message and replies in order; customer messages
become incoming and agent or bot messages become outgoing.

Credentials are read from the environment or a .env file:
  INTERCOM_API_TOKEN, CHATWOOT_BASE_URL, CHATWOOT_API_TOKEN,
  CHATWOOT_ACCOUNT_ID, CHATWOOT_INBOX_ID`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			startID, endID, err := config.ParseIDRange(args[0], args[1])
			if err != nil {
				return err
			}
			// Usage is only useful for argument errors.
			cmd.SilenceUsage = true

			return run(cmd.Context(), flags, startID, endID)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "fetch and preview conversations without writing to Chatwoot")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "enable verbose logging")
	cmd.Flags().BoolVar(&flags.nonInteractive, "non-interactive", false, "run without prompts using environment variables")
	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	return cmd
}

func run(ctx context.Context, flags rootFlags, startID, endID int) error {
	if err := config.LoadEnvFile(flags.envFile); err != nil {
		return err
	}

	cfg := config.New()
	cfg.Migration.StartID = startID
	cfg.Migration.EndID = endID
	cfg.Migration.DryRun = flags.dryRun
	cfg.Migration.Verbose = flags.verbose

	if !flags.nonInteractive {
		if err := config.InteractiveConfig(ctx, cfg); err != nil {
			return err
		}
	}

	runner := migration.NewInteractiveRunner(flags.nonInteractive)
	return runner.Run(ctx, cfg)
}
