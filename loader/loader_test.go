package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dacapoday/bplus/bptree"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tree := bptree.New(3)
	stats, err := Load(strings.NewReader("5 3\n9\n\n  3 -1\t7\n"), tree)
	require.NoError(t, err)
	require.Equal(t, Stats{Read: 6, Inserted: 5}, stats)
	require.NoError(t, tree.Verify())

	for _, key := range []int64{5, 3, 9, -1, 7} {
		val, found := tree.Get(key)
		require.True(t, found, "key %d", key)
		require.Equal(t, key, val)
	}
}

func TestLoadBadToken(t *testing.T) {
	tree := bptree.New(4)
	stats, err := Load(strings.NewReader("1 2 x3 4"), tree)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadInput))
	require.Contains(t, err.Error(), `token 3 "x3"`)
	require.Equal(t, 2, stats.Read)
	require.Equal(t, 2, tree.Len())
}

func TestLoadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(name, []byte("10\n20\n30\n"), 0o644))

	tree := bptree.New(4)
	stats, err := LoadFile(name, tree)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Inserted)
	require.Equal(t, []bptree.Entry{{Key: 10, Val: 10}, {Key: 20, Val: 20}, {Key: 30, Val: 30}}, tree.Range(0, 100))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing"), tree)
	require.ErrorIs(t, err, os.ErrNotExist)
}
