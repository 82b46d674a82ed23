package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("COMPANION_TEST_DIR", "/opt/work")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde alone", "~", home},
		{"tilde prefix", "~/code/app", filepath.Join(home, "code", "app")},
		{"env var", "$COMPANION_TEST_DIR/app", "/opt/work/app"},
		{"absolute", "/tmp/p1", "/tmp/p1"},
		{"surrounding space", "  /tmp/p1  ", "/tmp/p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandEmpty(t *testing.T) {
	_, err := Expand("   ")
	assert.Error(t, err)
	assert.Equal(t, "", MustExpand(""))
}

func TestComparePaths(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(dir, link))

	same, err := ComparePaths(dir, link)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = ComparePaths(dir+"/", dir)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = ComparePaths(dir, t.TempDir())
	require.NoError(t, err)
	assert.False(t, same)
}
