package memory

import (
	"fmt"
	"testing"
	"untangle/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory(UserData{
		UserID:          "u1",
		Profile:         Profile{Name: "Jane", Email: "jane@example.com"},
		RecentDocuments: []string{"Terms of Service"},
		Preferences:     map[string]interface{}{"language": "en"},
	})

	t.Run("known", func(t *testing.T) {
		u, err := m.Fetch(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Jane", u.Profile.Name)
		assert.Equal(t, []string{"Terms of Service"}, u.RecentDocuments)
		assert.Equal(t, "en", u.Preferences["language"])
	})

	t.Run("unknown", func(t *testing.T) {
		u, err := m.Fetch(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, "u2", u.UserID)
		assert.Empty(t, u.RecentDocuments)
		assert.NotNil(t, u.StoredQueries)
	})

	t.Run("empty_id", func(t *testing.T) {
		_, err := m.Fetch(ctx, "")
		assert.Error(t, err)
	})

	t.Run("copy", func(t *testing.T) {
		u, err := m.Fetch(ctx, "u1")
		require.NoError(t, err)
		u.RecentDocuments[0] = "changed"
		u.Preferences["language"] = "fr"

		u, err = m.Fetch(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Terms of Service", u.RecentDocuments[0])
		assert.Equal(t, "en", u.Preferences["language"])
	})
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	require.NoError(t, m.RecordDocument(ctx, "u1", "Privacy Policy"))
	require.NoError(t, m.RecordQuery(ctx, "u1", "  can they sell my data?  "))
	require.NoError(t, m.RecordQuery(ctx, "u1", ""))
	for i := 0; i < maxHistory; i++ {
		require.NoError(t, m.RecordDocument(ctx, "u1", fmt.Sprintf("doc %d", i)))
	}

	u, err := m.Fetch(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u.RecentDocuments, maxHistory)
	assert.Equal(t, fmt.Sprintf("doc %d", maxHistory-1), u.RecentDocuments[0])
	assert.NotContains(t, u.RecentDocuments, "Privacy Policy")
	assert.Equal(t, []string{"can they sell my data?"}, u.StoredQueries)

	assert.Error(t, m.RecordQuery(ctx, "", "q"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "TERMS OF SERVICE", Title("\n\n  TERMS OF SERVICE \n1. Acceptance"))
	assert.Equal(t, "untitled", Title(" \n "))
	long := ""
	for i := 0; i < 100; i++ {
		long += "a"
	}
	assert.Len(t, []rune(Title(long)), 83)
}
