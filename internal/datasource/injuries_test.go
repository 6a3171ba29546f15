package datasource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInjuryList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "injuries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"NYY": 3.5, "OAK": 1.2}`), 0o644))

	list, err := LoadInjuryList(path)
	require.NoError(t, err)

	war, ok := list.WARLost("NYY")
	require.True(t, ok)
	assert.Equal(t, 3.5, war)

	// Legacy code normalizes to the current franchise.
	war, ok = list.WARLost("ATH")
	require.True(t, ok)
	assert.Equal(t, 1.2, war)

	_, ok = list.WARLost("BOS")
	assert.False(t, ok)
}

func TestLoadInjuryListMissingPath(t *testing.T) {
	list, err := LoadInjuryList("")
	require.NoError(t, err)
	_, ok := list.WARLost("NYY")
	assert.False(t, ok)

	list, err = LoadInjuryList(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	_, ok = list.WARLost("NYY")
	assert.False(t, ok)
}
