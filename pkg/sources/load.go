package sources

import (
	"context"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/clockworksproduction/gamecat/pkg/errors"
	"github.com/clockworksproduction/gamecat/pkg/logging"
)

// Parse reads a JSON array of records. Entries that are not objects or lack a
// name are counted as discarded.
func Parse(id ID, data []byte) (List, error) {
	if !gjson.ValidBytes(data) {
		return List{ID: id}, errors.NewParseError("json", string(id), "invalid JSON", nil)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return List{ID: id}, errors.NewParseError("json", string(id), "expected a JSON array of records", nil)
	}

	list := List{ID: id}
	root.ForEach(func(_, item gjson.Result) bool {
		if rec, ok := ParseRecord(id, item); ok {
			list.Records = append(list.Records, rec)
		} else {
			list.Discarded++
		}
		return true
	})
	return list, nil
}

// Load reads one source list from fs.
func Load(fs afero.Fs, spec Spec) (List, error) {
	data, err := afero.ReadFile(fs, spec.Path)
	if err != nil {
		return List{ID: spec.ID, Path: spec.Path}, errors.WrapIO("read", spec.Path, err)
	}
	list, err := Parse(spec.ID, data)
	list.Path = spec.Path
	if err != nil {
		var parseErr *errors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.File = spec.Path
		}
		return list, err
	}
	return list, nil
}

// LoadAll loads every list in order. A list that cannot be read or parsed is
// logged and returned empty, with Err set, so the run continues with the rest.
func LoadAll(ctx context.Context, fs afero.Fs, specs []Spec) []List {
	lists := make([]List, 0, len(specs))
	for _, spec := range specs {
		logger := logging.FromContext(logging.WithSource(ctx, spec.ID.String()))
		list, err := Load(fs, spec)
		if err != nil {
			logger.Warn().Err(err).Str("path", spec.Path).Msg("Source list unusable, treating as empty")
			lists = append(lists, List{ID: spec.ID, Path: spec.Path, Err: err})
			continue
		}
		logger.Debug().
			Int("records", len(list.Records)).
			Int("discarded", list.Discarded).
			Msg("Loaded source list")
		lists = append(lists, list)
	}
	return lists
}

// Manifest lists source files in the order they are aggregated.
type Manifest struct {
	Sources []Spec `yaml:"sources"`
}

// LoadManifest reads a YAML manifest of source lists. Relative paths are
// resolved against the manifest's directory and missing IDs are derived from
// the file name.
func LoadManifest(fs afero.Fs, path string) ([]Spec, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	dir := filepath.Dir(path)
	specs := make([]Spec, 0, len(manifest.Sources))
	for i, spec := range manifest.Sources {
		if spec.Path == "" {
			return nil, errors.NewValidationError("sources", i, "source entry without a path")
		}
		if !filepath.IsAbs(spec.Path) {
			spec.Path = filepath.Join(dir, spec.Path)
		}
		if spec.ID == "" {
			spec.ID = IDFromPath(spec.Path)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
