// Package sync runs the full pipeline: load source lists, aggregate them,
// match each game to a folder, merge metadata, fold duplicate folders and
// fetch covers.
package sync

import (
	"fmt"
	"time"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
	"github.com/clockworksproduction/gamecat/pkg/sources"
)

// Options controls a sync run.
type Options struct {
	// Input and output
	Sources   []sources.Spec // Source lists in aggregation order
	OutputDir string         // Root of the game folder tree

	// Behavior control
	DryRun            bool          // Report what would change without writing
	Force             bool          // Fresh values replace persisted ones
	NoCreate          bool          // Only update existing folders; unmatched games are skipped
	Covers            bool          // Download missing cover images
	FetchDescriptions bool          // Read store pages to fill empty descriptions and credits
	Timeout           time.Duration // Timeout for the entire run (0 means none)
}

// Apply applies the given options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		OutputDir: constants.DefaultOutputDir,
		Covers:    true,
	}
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.OutputDir == "" {
		return &errors.ValidationError{
			Field:   "OutputDir",
			Value:   s.OutputDir,
			Message: "output directory is required",
		}
	}

	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}

	seen := make(map[sources.ID]bool)
	for _, spec := range s.Sources {
		if spec.Path == "" {
			return &errors.ValidationError{
				Field:   "Sources",
				Value:   spec.ID,
				Message: fmt.Sprintf("source '%s' has no path", spec.ID),
			}
		}
		if seen[spec.ID] {
			return &errors.ValidationError{
				Field:   "Sources",
				Value:   spec.ID,
				Message: fmt.Sprintf("source '%s' is listed twice", spec.ID),
			}
		}
		seen[spec.ID] = true
	}

	return nil
}

// Strategy returns the merge strategy selected by Force.
func (s *Options) Strategy() reconcile.Strategy {
	if s.Force {
		return reconcile.PreferFresh
	}
	return reconcile.PreferExisting
}

// WithSources sets the source lists.
func WithSources(specs ...sources.Spec) Option {
	return func(opts *Options) {
		opts.Sources = specs
	}
}

// WithOutputDir sets the output tree root.
func WithOutputDir(dir string) Option {
	return func(opts *Options) {
		opts.OutputDir = dir
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithForce makes fresh values replace persisted ones.
func WithForce(force bool) Option {
	return func(opts *Options) {
		opts.Force = force
	}
}

// WithNoCreate restricts the run to folders that already exist.
func WithNoCreate(noCreate bool) Option {
	return func(opts *Options) {
		opts.NoCreate = noCreate
	}
}

// WithCovers enables or disables cover downloads.
func WithCovers(covers bool) Option {
	return func(opts *Options) {
		opts.Covers = covers
	}
}

// WithFetchDescriptions enables reading store pages for missing text.
func WithFetchDescriptions(fetch bool) Option {
	return func(opts *Options) {
		opts.FetchDescriptions = fetch
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}
