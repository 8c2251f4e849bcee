package migration

import (
	"context"
	"fmt"
	"log"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/config"
)

type intercomChecker interface {
	TestConnection(ctx context.Context) error
}

type chatwootChecker interface {
	TestConnection(ctx context.Context, inboxID int) (*chatwoot.Inbox, error)
}

type PreflightChecker struct {
	config   *config.Config
	intercom intercomChecker
	chatwoot chatwootChecker
}

// NewPreflightChecker builds a checker. chatwootClient may be nil in dry-run mode.
func NewPreflightChecker(cfg *config.Config, intercomClient intercomChecker, chatwootClient *chatwoot.Client) *PreflightChecker {
	p := &PreflightChecker{
		config:   cfg,
		intercom: intercomClient,
	}
	if chatwootClient != nil {
		p.chatwoot = chatwootClient
	}
	return p
}

func (p *PreflightChecker) RunChecks(ctx context.Context) error {
	log.Println("Running pre-flight checks...")

	if err := p.checkIntercomAPI(ctx); err != nil {
		return err
	}

	if p.config.Migration.DryRun {
		log.Println("  Running in DRY-RUN mode - nothing will be written to Chatwoot")
		return nil
	}

	if err := p.checkChatwootAPI(ctx); err != nil {
		return err
	}

	log.Println("✓ All pre-flight checks passed")
	return nil
}

func (p *PreflightChecker) checkIntercomAPI(ctx context.Context) error {
	if err := p.intercom.TestConnection(ctx); err != nil {
		return fmt.Errorf("Intercom API check failed: %w", err)
	}
	log.Println("  ✓ Intercom API access verified")
	return nil
}

func (p *PreflightChecker) checkChatwootAPI(ctx context.Context) error {
	if p.chatwoot == nil {
		return fmt.Errorf("Chatwoot API check failed: client not configured")
	}

	inbox, err := p.chatwoot.TestConnection(ctx, p.config.Chatwoot.InboxID)
	if err != nil {
		return fmt.Errorf("Chatwoot API check failed: %w", err)
	}

	log.Println("  ✓ Chatwoot API access verified")
	log.Printf("  ✓ Target inbox: %s (ID: %d)", inbox.Name, inbox.ID)
	return nil
}
