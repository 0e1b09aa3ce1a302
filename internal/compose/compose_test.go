package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  []Service
	}{
		"mapping form": {
			input: `services:
  api:
    build:
      context: ./apps/api
  db:
    image: postgres:16
`,
			want: []Service{{Name: "api", BuildContext: "apps/api"}},
		},
		"scalar form": {
			input: `services:
  web:
    build: apps/web
`,
			want: []Service{{Name: "web", BuildContext: "apps/web"}},
		},
		"sorted by name": {
			input: `services:
  web:
    build: ./apps/web
  api:
    build: ./apps/api
`,
			want: []Service{
				{Name: "api", BuildContext: "apps/api"},
				{Name: "web", BuildContext: "apps/web"},
			},
		},
		"root context is not a package": {
			input: `services:
  everything:
    build: .
`,
			want: nil,
		},
		"context escaping the repository is dropped": {
			input: `services:
  odd:
    build: ../elsewhere
`,
			want: nil,
		},
		"malformed yaml degrades to empty": {
			input: "services:\n  - not\n  a: map\n",
			want:  nil,
		},
		"no services": {
			input: "version: \"3\"\n",
			want:  nil,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, Parse([]byte(tc.input)))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	composePath := filepath.Join(dir, "docker-compose.yml")
	content := "services:\n  api:\n    build: ./apps/api\n"
	require.NoError(t, os.WriteFile(composePath, []byte(content), 0o644))

	services := Load(composePath)
	require.Len(t, services, 1)
	assert.Equal(t, "api", services[0].Name)

	assert.Nil(t, Load(filepath.Join(dir, "missing.yml")))
}
