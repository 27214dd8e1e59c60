package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppend_OneLinePerRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs.jsonl")
	l := New(path)

	require.NoError(t, l.Append(Entry{Topic: "Understanding Iterators", Category: "Programming Languages", Delivered: true}))

	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, l.Append(Entry{Topic: "Second Topic", Category: "Databases", Delivered: false, ErrorKind: "auth", Error: "smtp authentication failed"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.TrimRight(string(first), "\n"), lines[0], "prior lines are never rewritten")

	var e1, e2 Entry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &e1))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e2))

	require.Equal(t, "Understanding Iterators", e1.Topic)
	require.True(t, e1.Delivered)
	require.NotEmpty(t, e1.ID)
	require.False(t, e1.Timestamp.IsZero())

	require.False(t, e2.Delivered)
	require.Equal(t, "auth", e2.ErrorKind)
	require.NotEqual(t, e1.ID, e2.ID)
}
