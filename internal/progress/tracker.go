// Package progress records the outcome of every conversation handled during a
// migration run and prints a summary when the run ends. State lives only in
// memory; a new run starts from scratch.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Outcome is the final state of one source conversation.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeNotFound    Outcome = "not_found"    // skipped: source answered 404
	OutcomeFetchFailed Outcome = "fetch_failed" // skipped: any other fetch failure
	OutcomeNoEmail     Outcome = "no_email"     // skipped: author has no email
	OutcomeFailed      Outcome = "failed"       // contact or conversation creation failed
)

var outcomeOrder = []Outcome{OutcomeCompleted, OutcomeNotFound, OutcomeFetchFailed, OutcomeNoEmail, OutcomeFailed}

type MigrationProgress struct {
	RunID              string
	StartedAt          time.Time
	LastConversationID int
	Conversations      map[Outcome][]int
	MessagesSent       int
	MessagesSkipped    int
	MessagesFailed     int
}

type Tracker struct {
	progress *MigrationProgress
	dryRun   bool
	out      io.Writer
}

func NewTracker(dryRun bool) *Tracker {
	return &Tracker{
		progress: &MigrationProgress{
			RunID:         uuid.NewString(),
			StartedAt:     time.Now().UTC(),
			Conversations: make(map[Outcome][]int),
		},
		dryRun: dryRun,
		out:    os.Stdout,
	}
}

// SetOutput redirects PrintSummary, mainly for tests.
func (t *Tracker) SetOutput(w io.Writer) {
	t.out = w
}

func (t *Tracker) Output() io.Writer {
	return t.out
}

func (t *Tracker) RunID() string {
	return t.progress.RunID
}

func (t *Tracker) GetProgress() *MigrationProgress {
	return t.progress
}

// Record stores the outcome of a conversation. A conversation recorded twice
// keeps only its latest outcome.
func (t *Tracker) Record(conversationID int, outcome Outcome) {
	for o, ids := range t.progress.Conversations {
		for i, id := range ids {
			if id == conversationID {
				t.progress.Conversations[o] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
	}

	t.progress.Conversations[outcome] = append(t.progress.Conversations[outcome], conversationID)
	t.progress.LastConversationID = conversationID
}

// AddMessages accumulates per-message counters from a replicated conversation.
func (t *Tracker) AddMessages(sent, skipped, failed int) {
	t.progress.MessagesSent += sent
	t.progress.MessagesSkipped += skipped
	t.progress.MessagesFailed += failed
}

func (t *Tracker) Count(outcome Outcome) int {
	return len(t.progress.Conversations[outcome])
}

func (t *Tracker) PrintSummary() {
	w := t.out
	_, _ = fmt.Fprintln(w, "\n"+strings.Repeat("=", 50))
	_, _ = fmt.Fprintln(w, "Migration Summary")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 50))
	_, _ = fmt.Fprintf(w, "Run ID: %s\n", t.progress.RunID)
	_, _ = fmt.Fprintf(w, "Duration: %s\n", time.Since(t.progress.StartedAt).Round(time.Second))
	if t.dryRun {
		_, _ = fmt.Fprintf(w, "Would migrate conversations: %d\n", t.Count(OutcomeCompleted))
	} else {
		_, _ = fmt.Fprintf(w, "Completed conversations: %d\n", t.Count(OutcomeCompleted))
	}
	_, _ = fmt.Fprintf(w, "Skipped (not found): %d\n", t.Count(OutcomeNotFound))
	_, _ = fmt.Fprintf(w, "Skipped (fetch failed): %d\n", t.Count(OutcomeFetchFailed))
	_, _ = fmt.Fprintf(w, "Skipped (no email): %d\n", t.Count(OutcomeNoEmail))
	_, _ = fmt.Fprintf(w, "Failed conversations: %d\n", t.Count(OutcomeFailed))
	_, _ = fmt.Fprintf(w, "Messages sent: %d, skipped (empty): %d, failed: %d\n",
		t.progress.MessagesSent, t.progress.MessagesSkipped, t.progress.MessagesFailed)

	for _, outcome := range outcomeOrder[1:] {
		ids := t.progress.Conversations[outcome]
		if len(ids) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s conversation IDs:\n", outcomeLabel(outcome))
		for _, id := range ids {
			_, _ = fmt.Fprintf(w, "  - %d\n", id)
		}
	}

	if t.dryRun {
		_, _ = fmt.Fprintln(w, "\n[DRY-RUN MODE] No actual changes were made")
	}
}

func outcomeLabel(o Outcome) string {
	switch o {
	case OutcomeNotFound:
		return "Not found"
	case OutcomeFetchFailed:
		return "Fetch failed"
	case OutcomeNoEmail:
		return "No email"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Completed"
	}
}
