// Package release computes version bump decisions from filtered commit sets.
package release

// BumpType is the semantic-versioning component incremented for a release,
// or "none"/"synced" when no release is needed.
type BumpType string

const (
	BumpMajor  BumpType = "major"
	BumpMinor  BumpType = "minor"
	BumpPatch  BumpType = "patch"
	BumpNone   BumpType = "none"
	BumpSynced BumpType = "synced"
)

// ValidOverride reports whether a string names a bump type an operator may
// force. "synced" is computed, never forced.
func ValidOverride(s string) bool {
	switch BumpType(s) {
	case BumpMajor, BumpMinor, BumpPatch, BumpNone:
		return true
	}
	return false
}

// Decision is the outcome of version analysis for one package.
//
// Invariant: ShouldBump is true only when TargetVersion differs from
// CurrentVersion and TargetVersion does not already exist as a tag.
type Decision struct {
	// CurrentVersion is the version currently on disk in the manifest.
	CurrentVersion string
	// BumpType is the computed (or overridden) bump.
	BumpType BumpType
	// ShouldBump reports whether a release should actually happen.
	ShouldBump bool
	// TargetVersion is the version a release would produce.
	TargetVersion string
	// Reason explains the decision in human-readable form.
	Reason string
}
