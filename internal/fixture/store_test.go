package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFixture = "testdata/conversations.json"

// copyFixture copies the test fixture into a temp dir so tests can modify it.
func copyFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(testFixture)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenAndList(t *testing.T) {
	s, err := Open(testFixture)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.LoadedAt().IsZero())

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "c-newer", list[0].ID, "newest conversation first")
	assert.Equal(t, "c-older", list[1].ID)
	assert.Nil(t, list[0].OrderID)
	require.NotNil(t, list[1].OrderID)
	assert.Equal(t, "12345", *list[1].OrderID)
}

func TestGet(t *testing.T) {
	s, err := Open(testFixture)
	require.NoError(t, err)

	d, ok := s.Get("c-older")
	require.True(t, ok)
	assert.Len(t, d.History, 3)
	assert.Equal(t, "agent", d.History[0].Role)
	require.Len(t, d.ExecutedFunctions, 1)
	assert.Equal(t, "check_order_details", d.ExecutedFunctions[0].Function)
	assert.Equal(t, "12345", d.ExecutedFunctions[0].Arguments["order_id"])

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestOpenRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing id", `[{"timestamp": "2025-03-01T09:00:00"}]`},
		{"duplicate id", `[{"id": "a"}, {"id": "a"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "conversations.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Open(path)
			assert.Error(t, err)
		})
	}
}

func TestReloadKeepsPreviousOnError(t *testing.T) {
	path := copyFixture(t)
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	assert.Error(t, s.Reload())
	assert.Equal(t, 2, s.Len(), "failed reload must keep old records")

	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "only"}]`), 0o644))
	require.NoError(t, s.Reload())
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get("only")
	assert.True(t, ok)
}
