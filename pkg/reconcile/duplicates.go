package reconcile

import (
	"context"
	"path/filepath"

	"github.com/clockworksproduction/gamecat/pkg/constants"
	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/games"
	"github.com/clockworksproduction/gamecat/pkg/logging"
	"github.com/clockworksproduction/gamecat/pkg/names"
)

// Tree is the view of the output tree the deduplicator needs.
type Tree interface {
	// ReadMeta returns nil and no error when the folder has no meta.json.
	ReadMeta(folder string) (*games.Meta, error)
	WriteMeta(folder string, meta games.Meta) error
	// Entries lists files and directories of a folder; folder may be nested.
	Entries(folder string) ([]string, error)
	HasFolder(folder string) bool
	Exists(folder, name string) bool
	Move(from, to, name string) error
	Remove(folder string) error
}

// FolderMerge groups folders that name the same game. Survivor is the first
// folder of the group in listing order.
type FolderMerge struct {
	Key      string   `json:"key"`
	Survivor string   `json:"survivor"`
	Absorbed []string `json:"absorbed"`
}

// PlanDuplicates groups folders by names.FolderKey. Only groups with more
// than one folder are returned, in order of their survivor.
func PlanDuplicates(folders []string) []FolderMerge {
	index := make(map[string]int)
	var groups []FolderMerge
	for _, folder := range folders {
		key := names.FolderKey(folder)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			groups[i].Absorbed = append(groups[i].Absorbed, folder)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, FolderMerge{Key: key, Survivor: folder})
	}

	plan := groups[:0]
	for _, g := range groups {
		if len(g.Absorbed) > 0 {
			plan = append(plan, g)
		}
	}
	return plan
}

// MergeAction reports what happened to one absorbed folder.
type MergeAction struct {
	Survivor string `json:"survivor"`
	Absorbed string `json:"absorbed"`
	// MetaMerged is set when both folders had metadata and they were merged.
	MetaMerged bool `json:"meta_merged,omitempty"`
	// MetaMoved is set when only the absorbed folder had metadata.
	MetaMoved bool `json:"meta_moved,omitempty"`
	// Moved lists entries moved into the survivor. Directories the survivor
	// already had are merged, so their contents are listed by nested path.
	Moved []string `json:"moved,omitempty"`
	// Kept lists files the survivor already had; its copy is kept.
	Kept []string `json:"kept,omitempty"`
	// Removed is set once the absorbed folder is gone.
	Removed bool  `json:"removed"`
	Err     error `json:"-"`
}

// DedupeOption configures a Deduplicator.
type DedupeOption func(*Deduplicator)

// WithDryRun plans and reports actions without touching the tree.
func WithDryRun(dryRun bool) DedupeOption {
	return func(d *Deduplicator) {
		d.dryRun = dryRun
	}
}

// Deduplicator folds duplicate folders into their survivor.
type Deduplicator struct {
	tree   Tree
	dryRun bool
}

// NewDeduplicator returns a Deduplicator working on tree.
func NewDeduplicator(tree Tree, opts ...DedupeOption) *Deduplicator {
	d := &Deduplicator{tree: tree}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run plans and applies the merges for folders.
func (d *Deduplicator) Run(ctx context.Context, folders []string) []MergeAction {
	return d.Apply(ctx, PlanDuplicates(folders))
}

// Apply folds every absorbed folder of plan into its survivor. A failure
// leaves that absorbed folder in place and is recorded on its action; the
// remaining folders are still processed. Applying a plan twice is harmless:
// the second pass finds nothing left to move.
func (d *Deduplicator) Apply(ctx context.Context, plan []FolderMerge) []MergeAction {
	var actions []MergeAction
	for _, group := range plan {
		for _, absorbed := range group.Absorbed {
			if err := ctx.Err(); err != nil {
				return actions
			}
			action := d.absorb(ctx, group.Survivor, absorbed)
			actions = append(actions, action)
		}
	}
	return actions
}

func (d *Deduplicator) absorb(ctx context.Context, survivor, absorbed string) MergeAction {
	logger := logging.FromContext(logging.WithFolder(ctx, survivor)).With().Str("absorbed", absorbed).Logger()
	action := MergeAction{Survivor: survivor, Absorbed: absorbed}

	if d.dryRun {
		action.MetaMerged = d.tree.Exists(survivor, constants.MetaFile) && d.tree.Exists(absorbed, constants.MetaFile)
		action.MetaMoved = !d.tree.Exists(survivor, constants.MetaFile) && d.tree.Exists(absorbed, constants.MetaFile)
		logger.Info().Msg("Would merge duplicate folder")
		return action
	}

	if err := d.mergeMeta(ctx, &action); err != nil {
		action.Err = err
		logger.Warn().Err(err).Msg("Duplicate folder left in place")
		return action
	}

	if err := d.moveEntries(&action, ""); err != nil {
		action.Err = err
		logger.Warn().Err(action.Err).Msg("Duplicate folder left in place")
		return action
	}
	if len(action.Kept) > 0 {
		logger.Warn().Strs("kept", action.Kept).Msg("Survivor already had these files; absorbed copies dropped")
	}

	if err := d.tree.Remove(absorbed); err != nil {
		action.Err = errors.NewMergeError(survivor, absorbed, "remove", err)
		logger.Warn().Err(action.Err).Msg("Duplicate folder could not be removed")
		return action
	}
	action.Removed = true

	logger.Info().
		Bool("meta_merged", action.MetaMerged).
		Int("moved", len(action.Moved)).
		Int("kept", len(action.Kept)).
		Msg("Merged duplicate folder")
	return action
}

// moveEntries moves the entries of the absorbed folder's dir into the
// survivor. A directory the survivor also has is merged entry by entry, so
// nothing but same-named files is left behind.
func (d *Deduplicator) moveEntries(action *MergeAction, dir string) error {
	entries, err := d.tree.Entries(filepath.Join(action.Absorbed, dir))
	if err != nil {
		return errors.NewMergeError(action.Survivor, action.Absorbed, "list", err)
	}
	for _, entry := range entries {
		name := filepath.Join(dir, entry)
		if name == constants.MetaFile {
			continue
		}
		if !d.tree.Exists(action.Survivor, name) {
			if err := d.tree.Move(action.Absorbed, action.Survivor, name); err != nil {
				return errors.NewMergeError(action.Survivor, action.Absorbed, "move "+name, err)
			}
			action.Moved = append(action.Moved, filepath.ToSlash(name))
			continue
		}
		if d.tree.HasFolder(filepath.Join(action.Absorbed, name)) && d.tree.HasFolder(filepath.Join(action.Survivor, name)) {
			if err := d.moveEntries(action, name); err != nil {
				return err
			}
			continue
		}
		action.Kept = append(action.Kept, filepath.ToSlash(name))
	}
	return nil
}

// mergeMeta reconciles meta.json between the two folders. Unreadable
// metadata counts as absent.
func (d *Deduplicator) mergeMeta(ctx context.Context, action *MergeAction) error {
	survivorMeta := d.readMeta(ctx, action.Survivor)
	absorbedMeta := d.readMeta(ctx, action.Absorbed)

	switch {
	case absorbedMeta == nil:
		return nil
	case survivorMeta == nil:
		if d.tree.Exists(action.Survivor, constants.MetaFile) {
			// Corrupt survivor metadata is replaced by the readable copy.
			if err := d.tree.WriteMeta(action.Survivor, *absorbedMeta); err != nil {
				return errors.NewMergeError(action.Survivor, action.Absorbed, "write meta", err)
			}
			action.MetaMerged = true
			return nil
		}
		if err := d.tree.Move(action.Absorbed, action.Survivor, constants.MetaFile); err != nil {
			return errors.NewMergeError(action.Survivor, action.Absorbed, "move meta", err)
		}
		action.MetaMoved = true
		return nil
	}

	existing, other := *survivorMeta, *absorbedMeta
	if other.Size() > existing.Size() {
		existing, other = other, existing
	}
	if err := d.tree.WriteMeta(action.Survivor, MergeMeta(existing, other)); err != nil {
		return errors.NewMergeError(action.Survivor, action.Absorbed, "write meta", err)
	}
	action.MetaMerged = true
	return nil
}

func (d *Deduplicator) readMeta(ctx context.Context, folder string) *games.Meta {
	meta, err := d.tree.ReadMeta(folder)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("folder", folder).Msg("Unreadable metadata treated as absent")
		return nil
	}
	return meta
}
