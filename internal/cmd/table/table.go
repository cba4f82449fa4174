// Package table converts sync, dedupe, cover and index results into rows
// for the CLI table formatter.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/differ"
	"github.com/clockworksproduction/gamecat/pkg/index"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
	"github.com/clockworksproduction/gamecat/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// empty is printed for cells without a value.
const empty = "-"

// SummaryToTableData renders the per-action counts of a sync run.
func SummaryToTableData(result *sync.Result) Data {
	rows := [][]string{
		{"Created", strconv.Itoa(result.Count(sync.ActionCreated))},
		{"Updated", strconv.Itoa(result.Count(sync.ActionUpdated))},
		{"Unchanged", strconv.Itoa(result.Count(sync.ActionUnchanged))},
		{"Skipped", strconv.Itoa(result.Count(sync.ActionSkipped))},
		{"Failed", strconv.Itoa(result.Count(sync.ActionFailed))},
		{"Folders merged", strconv.Itoa(len(result.Merges))},
		{"Covers saved", strconv.Itoa(len(result.Covers))},
		{"Covers missing", strconv.Itoa(len(result.CoversMissing))},
	}
	return Data{
		Headers:         []string{"Result", "Games"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// SourcesToTableData lists how each source list loaded.
func SourcesToTableData(sources []sync.SourceResult) Data {
	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		status := "ok"
		if s.Error != "" {
			status = s.Error
		}
		rows = append(rows, []string{
			s.ID,
			s.Path,
			strconv.Itoa(s.Records),
			strconv.Itoa(s.Discarded),
			status,
		})
	}
	return Data{
		Headers:         []string{"Source", "Path", "Records", "Discarded", "Status"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
}

// GamesToTableData lists games with their folder and action. Matched rows
// show how the folder was found, updated rows which fields changed.
func GamesToTableData(games []sync.GameResult) Data {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			g.Name,
			orEmpty(g.Folder),
			string(g.Action),
			FormatMatch(g.Match),
			joinOrEmpty(differ.Paths(g.Changes)),
			orEmpty(g.Reason),
		})
	}
	return Data{
		Headers: []string{"Game", "Folder", "Action", "Match", "Changes", "Reason"},
		Rows:    rows,
	}
}

// MergesToTableData lists duplicate folders folded into their survivor.
func MergesToTableData(merges []reconcile.MergeAction) Data {
	rows := make([][]string, 0, len(merges))
	for _, m := range merges {
		meta := empty
		switch {
		case m.MetaMerged:
			meta = "merged"
		case m.MetaMoved:
			meta = "moved"
		}
		status := "removed"
		switch {
		case m.Err != nil:
			status = m.Err.Error()
		case !m.Removed:
			status = "planned"
		}
		rows = append(rows, []string{
			m.Survivor,
			m.Absorbed,
			meta,
			joinOrEmpty(m.Moved),
			joinOrEmpty(m.Kept),
			status,
		})
	}
	return Data{
		Headers: []string{"Survivor", "Absorbed", "Meta", "Moved", "Kept", "Status"},
		Rows:    rows,
	}
}

// CoversToTableData lists acquired covers and the step that found them.
func CoversToTableData(results []covers.Result) Data {
	rows := make([][]string, 0, len(results))
	for _, c := range results {
		rows = append(rows, []string{c.Folder, c.Step.String(), orEmpty(c.URL), c.Path})
	}
	return Data{
		Headers: []string{"Folder", "Step", "Source", "File"},
		Rows:    rows,
	}
}

// IndexToTableData lists index entries.
func IndexToTableData(entries []index.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		stores := make([]string, 0, len(e.Storefronts))
		for _, s := range e.Storefronts {
			stores = append(stores, s.Store)
		}
		rows = append(rows, []string{
			e.Name,
			orEmpty(e.PrimaryStore),
			orEmpty(e.Image),
			joinOrEmpty(stores),
		})
	}
	return Data{
		Headers: []string{"Name", "Primary", "Image", "Storefronts"},
		Rows:    rows,
	}
}

// FormatMatch renders a resolver match as "method (score)".
func FormatMatch(m *reconcile.Match) string {
	if m == nil {
		return empty
	}
	return fmt.Sprintf("%s (%.2f)", m.Method, m.Score)
}

func orEmpty(s string) string {
	if s == "" {
		return empty
	}
	return s
}

func joinOrEmpty(values []string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ", ")
}
