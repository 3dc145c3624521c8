// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetCreatesAndReuses(t *testing.T) {
	st := NewStore()

	id, s := st.Get("")
	require.NotEmpty(t, id)
	require.NotNil(t, s)

	id2, s2 := st.Get(id)
	assert.Equal(t, id, id2)
	assert.Same(t, s, s2)

	id3, s3 := st.Get("unknown-id")
	assert.NotEqual(t, "unknown-id", id3)
	assert.NotSame(t, s, s3)
	assert.Equal(t, 2, st.Len())
}

func TestStore_LookupDoesNotCreate(t *testing.T) {
	st := NewStore()

	_, ok := st.Lookup("")
	assert.False(t, ok)
	_, ok = st.Lookup("unknown-id")
	assert.False(t, ok)
	assert.Equal(t, 0, st.Len())

	id, s := st.Get("")
	got, ok := st.Lookup(id)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, st.Len())
}

func TestStore_LookupRefreshesActivity(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore()
	st.now = func() time.Time { return now }

	id, _ := st.Get("")
	now = now.Add(50 * time.Minute)
	_, ok := st.Lookup(id)
	require.True(t, ok)

	now = now.Add(50 * time.Minute)
	assert.Equal(t, 0, st.Prune(time.Hour))
}

func TestStore_Prune(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewStore()
	st.now = func() time.Time { return now }

	_, idle := st.Get("")
	_, busy := st.Get("")
	_, _, err := busy.Submit("Loading forever")
	require.NoError(t, err)
	_ = idle

	now = now.Add(2 * time.Hour)
	freshID, _ := st.Get("")

	removed := st.Prune(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, st.Len())

	id, _ := st.Get(freshID)
	assert.Equal(t, freshID, id)
}
