package sync

import (
	"context"

	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
)

type coverTarget struct {
	folder    string
	imageHint string
}

// Covers acquires a cover for every folder in the output tree that lacks
// one. Only OutputDir and DryRun are read from the options.
func (s *Syncer) Covers(ctx context.Context, opts ...Option) (*Result, error) {
	o := Defaults().Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if s.fetcher == nil && !o.DryRun {
		return nil, errors.NewConfigError("covers", "cover acquisition needs a fetcher", nil)
	}

	tree := store.New(s.fs, o.OutputDir)
	folders, err := tree.Folders()
	if err != nil {
		return nil, err
	}
	targets := make([]coverTarget, 0, len(folders))
	for _, folder := range folders {
		targets = append(targets, coverTarget{folder: folder})
	}

	result := newResult(o, tree)
	defer result.finish()
	if err := s.acquireCovers(ctx, tree, o.DryRun, targets, result); err != nil {
		return result, err
	}
	logging.FromContext(ctx).Info().
		Int("folders", len(folders)).
		Int("covers", len(result.Covers)).
		Int("missing", len(result.CoversMissing)).
		Msg("Cover pass complete")
	return result, nil
}

// coverPass acquires covers for the folders touched by this run. Folders
// absorbed by the duplicate pass are looked up under their survivor.
func (s *Syncer) coverPass(ctx context.Context, tree *store.Store, o *Options, result *Result) error {
	absorbedBy := make(map[string]string)
	for _, merge := range result.Merges {
		if merge.Removed || o.DryRun {
			absorbedBy[merge.Absorbed] = merge.Survivor
		}
	}

	done := make(map[string]bool)
	var targets []coverTarget
	for _, g := range result.Games {
		if g.Folder == "" || g.Action == ActionFailed {
			continue
		}
		folder := g.Folder
		if survivor, ok := absorbedBy[folder]; ok {
			folder = survivor
		}
		if done[folder] {
			continue
		}
		done[folder] = true
		targets = append(targets, coverTarget{folder: folder, imageHint: g.imageHint})
	}
	return s.acquireCovers(ctx, tree, o.DryRun, targets, result)
}

func (s *Syncer) acquireCovers(ctx context.Context, tree *store.Store, dryRun bool, targets []coverTarget, result *Result) error {
	ctx = logging.WithOperation(ctx, "covers")
	var resolver *covers.Resolver
	if !dryRun {
		resolver = covers.NewResolver(s.fetcher, tree)
	}

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return errors.WrapResource("acquire", "covers", "", err)
		}
		if dryRun {
			if _, ok := tree.Image(t.folder); !ok {
				result.CoversMissing = append(result.CoversMissing, t.folder)
			}
			continue
		}

		meta, err := tree.ReadMeta(t.folder)
		if err != nil || meta == nil {
			meta = &games.Meta{}
		}
		res, ok := resolver.Acquire(ctx, covers.RequestFor(t.folder, *meta, t.imageHint))
		switch {
		case !ok:
			result.CoversMissing = append(result.CoversMissing, t.folder)
		case res.Step != covers.StepExisting:
			result.Covers = append(result.Covers, res)
		}
	}
	return nil
}
