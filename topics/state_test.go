package topics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadState_MissingFileYieldsZeroState(t *testing.T) {
	t.Parallel()

	st, err := LoadState(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, 0, st.NextIndex)
	require.Empty(t, st.Used)
	require.NotNil(t, st.Counts)
}

func TestState_SaveAndReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	st := &State{NextIndex: 3, Counts: map[string]int{"Databases": 2}}
	st.MarkUsed("Indexing Strategies For Busy Postgres Clusters", "Databases")
	require.NoError(t, st.Save(path))

	got, err := LoadState(path)
	require.NoError(t, err)
	require.Equal(t, 3, got.NextIndex)
	require.Equal(t, 3, got.Counts["Databases"])
	require.True(t, got.HasUsed("indexing strategies for busy postgres clusters"))
}

func TestState_IndexWrapsOnLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	st := &State{NextIndex: len(Categories)*4 + 2, Counts: map[string]int{}}
	require.NoError(t, st.Save(path))

	got, err := LoadState(path)
	require.NoError(t, err)
	require.Equal(t, 2, got.NextIndex)
	require.Equal(t, Categories[2], got.Category())
}

func TestState_AdvanceCycles(t *testing.T) {
	t.Parallel()

	st := &State{Counts: map[string]int{}}
	for i := 0; i < len(Categories); i++ {
		st.Advance()
	}
	require.Equal(t, 0, st.NextIndex)
}

func TestState_SaveLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := &State{Counts: map[string]int{}}
	require.NoError(t, st.Save(filepath.Join(dir, "state.json")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "state.json", entries[0].Name())
}
