// Package compose discovers deployable application services from a
// docker-compose file. Services with a local build context map onto
// application packages; everything else (registry images, infrastructure
// services) is ignored.
package compose

import (
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Service is one deployable service discovered in the compose file.
type Service struct {
	// Name is the compose service key.
	Name string
	// BuildContext is the repository-relative build directory.
	BuildContext string
}

type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Build buildSection `yaml:"build"`
}

// buildSection accepts both compose build forms: a bare context string
// ("build: ./apps/api") and the mapping form with a context key.
type buildSection struct {
	Context string
}

func (b *buildSection) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&b.Context)
	case yaml.MappingNode:
		var m struct {
			Context string `yaml:"context"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		b.Context = m.Context
	}
	return nil
}

// Parse extracts locally built services from compose file content,
// sorted by name. Malformed YAML degrades to an empty list.
func Parse(data []byte) []Service {
	var file composeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil
	}

	var services []Service
	for name, svc := range file.Services {
		context := normalizeContext(svc.Build.Context)
		if context == "" {
			continue
		}
		services = append(services, Service{Name: name, BuildContext: context})
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services
}

// Load reads and parses the compose file at the given path. A missing or
// unreadable file degrades to an empty list.
func Load(composePath string) []Service {
	data, err := os.ReadFile(composePath)
	if err != nil {
		return nil
	}
	return Parse(data)
}

// normalizeContext cleans a build context into a repository-relative
// path. The repository root context (".") is not an application package.
func normalizeContext(context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return ""
	}
	cleaned := path.Clean(context)
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." || cleaned == "" || strings.HasPrefix(cleaned, "..") {
		return ""
	}
	return cleaned
}
