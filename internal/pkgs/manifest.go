package pkgs

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// Manifest is the subset of a package.json that versioning cares about.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// ParseManifest decodes manifest JSON content.
func ParseManifest(content []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file from disk.
func LoadManifest(path string) (*Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(content)
}

// AllDependencyNames returns the union of direct, dev and peer dependency
// names. Order is not guaranteed.
func (m *Manifest) AllDependencyNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		for name := range deps {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// versionField matches the first "version" field in manifest JSON.
var versionField = regexp.MustCompile(`("version"\s*:\s*)"[^"]*"`)

// WriteManifestVersion rewrites the version field of a manifest file in
// place, preserving all other content and formatting untouched.
func WriteManifestVersion(path, newVersion string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}

	loc := versionField.FindSubmatchIndex(content)
	if loc == nil {
		return fmt.Errorf("manifest %s has no version field", path)
	}

	// Replace only the first match; nested objects may also carry a
	// "version" key and must be left alone.
	var updated []byte
	updated = append(updated, content[:loc[3]]...)
	updated = append(updated, []byte(`"`+newVersion+`"`)...)
	updated = append(updated, content[loc[1]:]...)
	if err := os.WriteFile(path, updated, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
