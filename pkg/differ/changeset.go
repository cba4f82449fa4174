// Package differ reports field-level differences between two metadata
// records, so a sync run can say what it changed in each folder.
package differ

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates an empty field was filled.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a value was replaced.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a value was cleared.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field. Path is the meta.json
// key, with the store appended for per-store slots ("storeUrl.steam").
type FieldChange struct {
	Path     string     `json:"path"`
	OldValue string     `json:"old,omitempty"`
	NewValue string     `json:"new,omitempty"`
	Type     ChangeType `json:"type"`
}

// Paths returns the changed field paths in order.
func Paths(changes []FieldChange) []string {
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, c.Path)
	}
	return paths
}
