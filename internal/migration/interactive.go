package migration

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/exileum/intercom-to-chatwoot/internal/config"
)

// InteractiveRunner handles the interactive migration flow
type InteractiveRunner struct {
	nonInteractive bool
	run            func(ctx context.Context, cfg *config.Config) error
}

// NewInteractiveRunner creates a new interactive migration runner
func NewInteractiveRunner(nonInteractive bool) *InteractiveRunner {
	return &InteractiveRunner{
		nonInteractive: nonInteractive,
		run: func(ctx context.Context, cfg *config.Config) error {
			return NewMigrator(cfg).Run(ctx)
		},
	}
}

// Run executes the migration. Interactive sessions offer a dry run first and
// may continue with further id ranges once a range is done.
func (r *InteractiveRunner) Run(ctx context.Context, cfg *config.Config) error {
	if r.nonInteractive {
		if err := r.run(ctx, cfg); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	}

	for {
		proceed, err := r.handlePreMigrationSteps(ctx, cfg)
		if err != nil {
			return err
		}
		if !proceed {
			log.Println("⚠ Migration not started")
			return nil
		}

		if err := r.runMigration(ctx, cfg); err != nil {
			if errors.Is(err, ErrMigrationAborted) || ctx.Err() != nil {
				return err
			}
			fmt.Printf("\nError: %v\n\n", err)
			if config.PromptBool("Retry this range?", false) {
				continue
			}
			return err
		}

		if !r.handlePostMigrationSteps(cfg) {
			return nil
		}
	}
}

// handlePreMigrationSteps fails with config.ErrNoInteractiveInput when stdin is closed.
func (r *InteractiveRunner) handlePreMigrationSteps(ctx context.Context, cfg *config.Config) (bool, error) {
	if cfg.Migration.DryRun {
		return true, nil
	}

	dryRunFirst, err := config.Confirm("Would you like to do a dry run first? (recommended)", true)
	if err != nil {
		return false, err
	}
	if dryRunFirst {
		if err := r.runDryRun(ctx, cfg); err != nil {
			log.Printf("Dry run failed: %v", err)
		}
	}

	return config.Confirm("Start the actual migration now?", false)
}

func (r *InteractiveRunner) runMigration(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("\nStarting migration of Intercom conversations %d-%d to Chatwoot inbox %d...\n",
		cfg.Migration.StartID, cfg.Migration.EndID, cfg.Chatwoot.InboxID)
	return r.run(ctx, cfg)
}

// runDryRun runs the same range against a copy of cfg with DryRun set.
func (r *InteractiveRunner) runDryRun(ctx context.Context, cfg *config.Config) error {
	fmt.Println("\nRunning dry run...")
	dry := *cfg
	dry.Migration.DryRun = true
	return r.run(ctx, &dry)
}

func (r *InteractiveRunner) handlePostMigrationSteps(cfg *config.Config) bool {
	fmt.Println("\nMigration complete!")
	if !config.PromptBool("Migrate another range of conversations?", false) {
		return false
	}

	fmt.Println("\n=== Select Next Range ===")
	for {
		start := config.PromptIntMin("Start conversation ID", cfg.Migration.EndID+1, 0)
		end := config.PromptIntMin("End conversation ID", start, 0)
		if start < 0 || end < start {
			fmt.Println("End ID must not be before start ID.")
			continue
		}
		cfg.Migration.StartID, cfg.Migration.EndID = start, end
		return true
	}
}
