package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/status"
)

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stun.yaml"), []byte(`
id: stun
name: Stun
categories: [stun]
duration: 1.25
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	reg, err := status.LoadDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	def, ok := reg.Get("stun")
	require.True(t, ok)
	assert.Equal(t, []status.Category{status.Stun}, def.Categories)
	assert.InDelta(t, 1.25, def.Duration, 1e-9)
}

func TestLoadDirectory_UnknownField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
id: bad
categories: [stun]
colour: red
`), 0644))
	_, err := status.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_UnknownCategory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
id: bad
categories: [sleepy]
`), 0644))
	_, err := status.LoadDirectory(dir)
	assert.ErrorContains(t, err, "unknown category")
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := status.LoadDirectory("/nonexistent")
	assert.Error(t, err)
}

func TestDef_Validate(t *testing.T) {
	assert.Error(t, (&status.Def{}).Validate())
	assert.Error(t, (&status.Def{ID: "x"}).Validate())
	assert.NoError(t, (&status.Def{ID: "x", Categories: []status.Category{status.Slow}}).Validate())
}
