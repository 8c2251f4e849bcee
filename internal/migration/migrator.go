// Package migration moves Intercom conversations into a Chatwoot inbox. It
// coordinates conversation retrieval, contact resolution, message replay and
// the run summary.
package migration

import (
	"context"
	"fmt"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/config"
	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
	"github.com/exileum/intercom-to-chatwoot/internal/progress"
)

// Migrator runs one migration over the configured conversation id range.
type Migrator struct {
	config  *config.Config
	tracker *progress.Tracker
}

// NewMigrator creates a migrator for cfg. The configuration is validated by Run.
func NewMigrator(cfg *config.Config) *Migrator {
	return &Migrator{
		config:  cfg,
		tracker: progress.NewTracker(cfg.Migration.DryRun),
	}
}

// Tracker returns the run summary, which is complete once Run returns.
func (m *Migrator) Tracker() *progress.Tracker {
	return m.tracker
}

// Run validates the configuration, builds both API clients, runs the
// pre-flight checks and then processes the id range.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	intercomClient := intercom.NewClient(m.config.Intercom.APIURL, m.config.Intercom.Token)
	if m.config.Migration.RequestTimeout > 0 {
		intercomClient.SetTimeout(m.config.Migration.RequestTimeout)
	}

	var chatwootClient *chatwoot.Client
	var resolver *ContactResolver
	if !m.config.Migration.DryRun {
		var err error
		chatwootClient, err = chatwoot.NewClient(m.config.Chatwoot.BaseURL, m.config.Chatwoot.Token, m.config.Chatwoot.AccountID)
		if err != nil {
			return fmt.Errorf("failed to initialize Chatwoot client: %w", err)
		}
		if m.config.Migration.RequestTimeout > 0 {
			chatwootClient.SetTimeout(m.config.Migration.RequestTimeout)
		}
		resolver = NewContactResolver(chatwootClient, m.config.Chatwoot.InboxID,
			m.config.Migration.MaxAttempts, m.config.Migration.RateLimitBackoff)
	}

	checker := NewPreflightChecker(m.config, intercomClient, chatwootClient)
	if err := checker.RunChecks(ctx); err != nil {
		return fmt.Errorf("pre-flight checks failed: %w", err)
	}

	// A nil *chatwoot.Client must not end up inside the interface.
	var sink ConversationSink
	if chatwootClient != nil {
		sink = chatwootClient
	}
	replicator := NewReplicator(sink, m.config.Chatwoot.InboxID, m.config.Migration.Verbose)

	runner := NewRunner(m.config, intercomClient, resolver, replicator, m.tracker)
	err := runner.RunMigration(ctx)

	if chatwootClient != nil {
		requests, rateLimited := chatwootClient.GetStats()
		fmt.Fprintf(m.tracker.Output(), "Chatwoot requests: %d (%d rate limited)\n", requests, rateLimited)
	}
	return err
}
