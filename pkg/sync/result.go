package sync

import (
	"fmt"
	"strings"

	"github.com/agentstation/utc"

	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/differ"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
)

// Action is what a run did with one game.
type Action string

// Game actions.
const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionSkipped   Action = "skipped"
	ActionFailed    Action = "failed"
)

// GameResult reports one aggregated game.
type GameResult struct {
	Name    string               `json:"name"`
	Folder  string               `json:"folder,omitempty"`
	Action  Action               `json:"action"`
	Match   *reconcile.Match     `json:"match,omitempty"`   // Set when an existing folder was matched by name
	Changes []differ.FieldChange `json:"changes,omitempty"` // Fields rewritten in an updated folder
	Reason  string               `json:"reason,omitempty"`
	Err     error                `json:"-"`

	imageHint string
}

// SourceResult reports one source list.
type SourceResult struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	Records   int    `json:"records"`
	Discarded int    `json:"discarded"`
	Error     string `json:"error,omitempty"`
}

// Result represents the complete result of a sync run.
type Result struct {
	Sources []SourceResult          `json:"sources"`
	Games   []GameResult            `json:"games"`
	Merges  []reconcile.MergeAction `json:"merges,omitempty"`
	Covers  []covers.Result         `json:"covers,omitempty"`
	// CoversMissing lists folders still without a cover after the cover pass,
	// or that would be looked up in a dry run.
	CoversMissing []string `json:"covers_missing,omitempty"`

	// Operation metadata
	DryRun     bool     `json:"dry_run"`
	OutputDir  string   `json:"output_dir"`
	StartedAt  utc.Time `json:"started_at"`
	FinishedAt utc.Time `json:"finished_at"`
}

func newResult(o *Options, tree *store.Store) *Result {
	return &Result{DryRun: o.DryRun, OutputDir: tree.Root(), StartedAt: utc.Now()}
}

// finish stamps FinishedAt. Deferred by every pass so partial results carry
// it too.
func (r *Result) finish() {
	r.FinishedAt = utc.Now()
}

// Count returns how many games ended with action.
func (r *Result) Count(action Action) int {
	n := 0
	for _, g := range r.Games {
		if g.Action == action {
			n++
		}
	}
	return n
}

// Skipped returns the games that were skipped or failed.
func (r *Result) Skipped() []GameResult {
	var out []GameResult
	for _, g := range r.Games {
		if g.Action == ActionSkipped || g.Action == ActionFailed {
			out = append(out, g)
		}
	}
	return out
}

// HasChanges reports whether the run changed, or in a dry run would change,
// the output tree.
func (r *Result) HasChanges() bool {
	return r.Count(ActionCreated) > 0 || r.Count(ActionUpdated) > 0 || len(r.Merges) > 0 || len(r.Covers) > 0
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		summary := "No changes detected"
		if n := len(r.Skipped()); n > 0 {
			summary += fmt.Sprintf(", %d skipped", n)
		}
		return summary
	}

	summary := fmt.Sprintf("%d created, %d updated, %d unchanged, %d skipped",
		r.Count(ActionCreated), r.Count(ActionUpdated), r.Count(ActionUnchanged), len(r.Skipped()))

	var parts []string
	if len(r.Merges) > 0 {
		parts = append(parts, fmt.Sprintf("%d duplicate folders merged", len(r.Merges)))
	}
	if len(r.Covers) > 0 {
		parts = append(parts, fmt.Sprintf("%d covers saved", len(r.Covers)))
	}
	if len(parts) > 0 {
		summary += "; " + strings.Join(parts, ", ")
	}
	if r.DryRun {
		summary += " (Dry run)"
	}
	return summary
}
