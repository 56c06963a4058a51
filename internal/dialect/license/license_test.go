package license

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/testutil"
)

var env = dialect.Env{
	People: map[string]dialect.Person{"ada": {Name: "Ada Lovelace"}},
	Year:   2026,
}

func TestKnown(t *testing.T) {
	assert.Contains(t, Known(), "MIT")
	assert.Contains(t, Known(), "Unlicense")
}

func TestLicense_Compose(t *testing.T) {
	src := testutil.Presets(t, `
mit:
  id: MIT
  holder: ada
isc:
  spdx: isc
  holder: Example Corp
  year: 1999
custom:
  id: LicenseRef-Custom
  text: All rights reserved.
gpl:
  id: GPL-3.0-only
`)

	tests := []struct {
		id     string
		prefix string
	}{
		{"mit", "MIT License\n\nCopyright (c) 2026 Ada Lovelace\n"},
		{"isc", "ISC License\n\nCopyright (c) 1999 Example Corp\n"},
		{"custom", "All rights reserved.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a, err := Spec.Compose(src, tt.id, nil, env)
			require.NoError(t, err)
			got, err := a.Render(serialize.Text)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(got), tt.prefix), string(got))
		})
	}

	_, err := Spec.Compose(src, "gpl", nil, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoText)
	assert.Contains(t, err.Error(), `"GPL-3.0-only"`)
}

func TestLicense_NeedsIDOrText(t *testing.T) {
	_, err := Spec.Compose(testutil.Presets(t, "x:\n  holder: ada\n"), "x", nil, env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither id nor text")
}
