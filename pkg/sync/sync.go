package sync

import (
	"context"

	"github.com/spf13/afero"

	"github.com/clockworksproduction/gamecat/internal/scrape"
	"github.com/clockworksproduction/gamecat/internal/store"
	"github.com/clockworksproduction/gamecat/pkg/covers"
	"github.com/clockworksproduction/gamecat/pkg/differ"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/reconcile"
	"github.com/clockworksproduction/gamecat/pkg/sources"
)

// DefaultPlatform is recorded for games that have a store link but no
// platform information.
const DefaultPlatform = "Windows"

// Syncer runs sync passes against a filesystem.
type Syncer struct {
	fs      afero.Fs
	fetcher covers.Fetcher
}

// New returns a Syncer. Source lists and the output tree are read from fs.
// A nil fetcher disables everything that needs the network.
func New(fs afero.Fs, fetcher covers.Fetcher) *Syncer {
	return &Syncer{fs: fs, fetcher: fetcher}
}

// Run executes one sync pass.
//
// Malformed inputs, unreachable stores and per-game write failures are
// reported in the result, not returned. An error is returned only for
// invalid options, an unreadable output directory, or a canceled context.
func (s *Syncer) Run(ctx context.Context, opts ...Option) (*Result, error) {
	o := Defaults().Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	logger := logging.FromContext(ctx)
	tree := store.New(s.fs, o.OutputDir)
	result := newResult(o, tree)
	defer result.finish()

	// Load and aggregate.
	lists := sources.LoadAll(ctx, s.fs, o.Sources)
	aggregator := reconcile.NewAggregator()
	for _, list := range lists {
		aggregator.AddList(list)
		result.Sources = append(result.Sources, sourceResult(list))
	}
	catalog := aggregator.Catalog()
	logger.Info().
		Int("sources", len(lists)).
		Int("games", catalog.Len()).
		Int("unnamed", aggregator.Skipped()).
		Msg("Aggregated source lists")

	// Match and merge each game.
	folders, err := tree.Folders()
	if err != nil {
		return nil, err
	}
	m := newMatcher(folders)
	for _, rec := range catalog.Records() {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapResource("sync", "games", "", err)
		}
		result.Games = append(result.Games, s.syncGame(ctx, tree, o, m, rec))
	}

	// Fold duplicate folders.
	folders, err = tree.Folders()
	if err != nil {
		return result, err
	}
	result.Merges = reconcile.NewDeduplicator(tree, reconcile.WithDryRun(o.DryRun)).Run(ctx, folders)

	// Covers.
	if o.Covers && s.fetcher != nil {
		if err := s.coverPass(ctx, tree, o, result); err != nil {
			return result, err
		}
	}

	logger.Info().
		Int("created", result.Count(ActionCreated)).
		Int("updated", result.Count(ActionUpdated)).
		Int("unchanged", result.Count(ActionUnchanged)).
		Int("skipped", len(result.Skipped())).
		Int("merged", len(result.Merges)).
		Int("covers", len(result.Covers)).
		Bool("dry_run", o.DryRun).
		Msg("Sync complete")
	return result, nil
}

// Dedupe folds duplicate folders in the output tree without loading any
// source list. Only OutputDir and DryRun are read from the options.
func (s *Syncer) Dedupe(ctx context.Context, opts ...Option) (*Result, error) {
	o := Defaults().Apply(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	tree := store.New(s.fs, o.OutputDir)
	folders, err := tree.Folders()
	if err != nil {
		return nil, err
	}
	result := newResult(o, tree)
	defer result.finish()
	result.Merges = reconcile.NewDeduplicator(tree, reconcile.WithDryRun(o.DryRun)).Run(ctx, folders)
	if err := ctx.Err(); err != nil {
		return result, errors.WrapResource("dedupe", "folders", "", err)
	}
	return result, nil
}

func sourceResult(list sources.List) SourceResult {
	sr := SourceResult{
		ID:        list.ID.String(),
		Path:      list.Path,
		Records:   len(list.Records),
		Discarded: list.Discarded,
	}
	if list.Err != nil {
		sr.Error = list.Err.Error()
	}
	return sr
}

// syncGame writes one game's folder.
func (s *Syncer) syncGame(ctx context.Context, tree *store.Store, o *Options, m *matcher, rec *games.Record) GameResult {
	ctx = logging.WithGame(ctx, rec.Identity.Name)
	logger := logging.FromContext(ctx)
	gr := GameResult{Name: rec.Identity.Name, imageHint: rec.ImageHint}

	folder, match, exists, taken := m.locate(tree, rec.Identity)
	switch {
	case taken:
		gr.Action = ActionSkipped
		gr.Reason = "folder already used by another game"
		logger.Warn().Msg("Folder name collides with another game, skipping")
		return gr
	case folder == "":
		gr.Action = ActionSkipped
		gr.Reason = "name has no usable folder form"
		logger.Warn().Msg("Skipping game without a usable folder name")
		return gr
	case !exists && o.NoCreate:
		gr.Action = ActionSkipped
		gr.Reason = "no matching folder"
		logger.Warn().Msg("No existing folder matches, skipping")
		return gr
	}
	m.claim(folder)
	gr.Folder = folder
	gr.Match = match
	if match != nil {
		logger.Debug().
			Str("folder", folder).
			Stringer("method", match.Method).
			Float64("score", match.Score).
			Msg("Matched existing folder")
	}

	existing, err := tree.ReadMeta(folder)
	if err != nil {
		logger.Warn().Err(err).Msg("Unreadable metadata treated as absent")
		existing = nil
	}

	if o.FetchDescriptions && s.fetcher != nil {
		s.enrich(ctx, existing, rec)
	}

	merged := o.Strategy().Apply(existing, rec)
	merged.ResolvePrimary()
	if games.EmptyList(merged.Platforms) && merged.StoreURL.Any() {
		merged.Platforms = []string{DefaultPlatform}
	}

	switch {
	case !exists:
		gr.Action = ActionCreated
	case existing != nil && existing.Equal(merged):
		gr.Action = ActionUnchanged
	default:
		gr.Action = ActionUpdated
		gr.Changes = differ.New().Meta(existing, merged)
		logger.Debug().Strs("fields", differ.Paths(gr.Changes)).Msg("Metadata changed")
	}

	if o.DryRun {
		return gr
	}

	if gr.Action != ActionUnchanged {
		if err := tree.WriteMeta(folder, merged); err != nil {
			return failed(ctx, gr, err)
		}
	}
	if _, err := tree.EnsureSynopsis(folder, SynopsisText(merged)); err != nil {
		return failed(ctx, gr, err)
	}
	logger.Debug().Str("folder", folder).Str("action", string(gr.Action)).Msg("Wrote game folder")
	return gr
}

func failed(ctx context.Context, gr GameResult, err error) GameResult {
	gr.Action = ActionFailed
	gr.Err = errors.NewSyncError(gr.Name, gr.Folder, err)
	gr.Reason = err.Error()
	logging.FromContext(ctx).Error().Err(gr.Err).Msg("Failed to write game folder")
	return gr
}

// SynopsisText is the initial synopsis for a game.
func SynopsisText(meta games.Meta) string {
	if meta.Description != "" {
		return meta.Description
	}
	return meta.Name + ": Add your synopsis here."
}

// enrich fills empty fields of rec: a Steam app found by searching the game's
// name, then text and credits from the primary store page. Fields the
// persisted metadata already has are not looked up.
func (s *Syncer) enrich(ctx context.Context, existing *games.Meta, rec *games.Record) {
	s.findSteamApp(ctx, existing, rec)

	preview := reconcile.Merge(existing, rec)
	needDescription := preview.Description == ""
	needCredits := preview.Developer == "" || preview.Publisher == "" || preview.ReleaseDate == "" || games.EmptyList(preview.Genre)
	if !needDescription && !needCredits {
		return
	}

	primary, link, ok := preview.Primary()
	if !ok {
		return
	}
	logger := logging.FromContext(logging.WithStore(ctx, primary.String()))

	page, err := s.fetcher.Page(ctx, link)
	if err != nil {
		logger.Debug().Err(err).Str("url", link).Msg("Store page unavailable, leaving fields empty")
		return
	}
	doc := scrape.Parse(page)
	data := doc.Structured()

	if rec.Description == "" {
		if desc, ok := doc.Description(); ok {
			rec.Description = desc
		} else {
			rec.Description = data.Description
		}
	}
	if rec.ReleaseDate == "" {
		rec.ReleaseDate = data.ReleaseDate
	}
	fillSet(&rec.Developers, data.Developers)
	fillSet(&rec.Publishers, data.Publishers)
	fillSet(&rec.Genres, data.Genres)
	logger.Debug().Str("url", link).Msg("Enriched from store page")
}

func fillSet(set *games.Set, values []string) {
	if set.Len() > 0 {
		return
	}
	for _, v := range values {
		set.Add(v)
	}
}
