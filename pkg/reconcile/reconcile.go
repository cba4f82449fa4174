// Package reconcile turns many storefront records into one record per game.
//
// It has four parts that run in this order during a sync:
//
//   - Aggregate folds source lists into a games.Catalog, one record per
//     normalized name.
//   - Resolve matches a game name against existing folder names.
//   - Merge folds an aggregated record into the metadata already on disk,
//     letting the persisted values win.
//   - PlanDuplicates and Deduplicator fold output folders that differ only
//     by spacing, underscores or case.
package reconcile

import (
	"github.com/clockworksproduction/gamecat/pkg/games"
)

// Strategy selects which side wins when both the persisted metadata and a
// fresh record have a value for the same field.
type Strategy int

const (
	// PreferExisting keeps persisted values and only fills gaps. This is the
	// normal sync behavior.
	PreferExisting Strategy = iota
	// PreferFresh lets fresh values replace persisted ones and keeps
	// persisted values only where the fresh record has nothing.
	PreferFresh
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case PreferExisting:
		return "prefer-existing"
	case PreferFresh:
		return "prefer-fresh"
	default:
		return "unknown"
	}
}

// Apply merges fresh into existing under the strategy.
func (s Strategy) Apply(existing *games.Meta, fresh *games.Record) games.Meta {
	if s == PreferFresh {
		return Overwrite(existing, fresh)
	}
	return Merge(existing, fresh)
}
