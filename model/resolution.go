package model

// ResolutionMode enumerates the outcomes of duplicate-checking a candidate
// name. Exactly one mode is active per resolution.
type ResolutionMode string

const (
	// ResolutionExisting means an identical or user-accepted catalog entry
	// was found; ID carries its identity.
	ResolutionExisting ResolutionMode = "existing"

	// ResolutionNew means no match was found (or the catalog was
	// unreachable); the caller must create the entry.
	ResolutionNew ResolutionMode = "new"

	// ResolutionOverwrite means a name collision with different content
	// exists and the operator elected to replace it; ID carries the entry
	// to overwrite.
	ResolutionOverwrite ResolutionMode = "overwrite"

	// ResolutionRename means the operator elected to keep both entries;
	// NewName carries the computed alternate name.
	ResolutionRename ResolutionMode = "rename"

	// ResolutionCancel means the operator aborted; the caller must not
	// persist anything for this save.
	ResolutionCancel ResolutionMode = "cancel"
)

// Resolution is the outcome of a duplicate-resolution call. ID and NewName
// are populated only for the modes that need them.
type Resolution struct {
	Mode    ResolutionMode `json:"mode"`
	ID      string         `json:"id,omitempty"`
	NewName string         `json:"new_name,omitempty"`
}

// Existing returns an existing-entry resolution.
func Existing(id string) Resolution {
	return Resolution{Mode: ResolutionExisting, ID: id}
}

// New returns a create-new resolution.
func New() Resolution {
	return Resolution{Mode: ResolutionNew}
}

// Overwrite returns a replace-existing resolution.
func Overwrite(id string) Resolution {
	return Resolution{Mode: ResolutionOverwrite, ID: id}
}

// Rename returns a keep-both resolution with the computed alternate name.
func Rename(newName string) Resolution {
	return Resolution{Mode: ResolutionRename, NewName: newName}
}

// Cancelled returns an operator-cancelled resolution.
func Cancelled() Resolution {
	return Resolution{Mode: ResolutionCancel}
}
