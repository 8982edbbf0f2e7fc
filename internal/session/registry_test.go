package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertAndGet(t *testing.T) {
	r := NewRegistry[string]("widget")

	id := r.Insert("hello")
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestRegistryGetMissingIsNotFound(t *testing.T) {
	r := NewRegistry[string]("widget")

	_, err := r.Get(uuid.New())
	assert.Error(t, err)
}

func TestRegistryDelete(t *testing.T) {
	r := NewRegistry[string]("widget")

	id := r.Insert("hello")
	r.Delete(id)

	_, err := r.Get(id)
	assert.Error(t, err)
}

func TestRegistryReapRemovesOldEntriesOnly(t *testing.T) {
	r := NewRegistry[string]("widget")

	old := r.Insert("old")
	fresh := r.Insert("fresh")

	r.mu.Lock()
	entry := r.items[old]
	entry.createdAt = time.Now().Add(-2 * time.Hour)
	r.items[old] = entry
	r.mu.Unlock()

	removed := r.Reap(time.Now(), time.Hour)
	assert.Equal(t, 1, removed)

	_, err := r.Get(old)
	assert.Error(t, err)

	_, err = r.Get(fresh)
	assert.NoError(t, err)
}

func TestRegistryCount(t *testing.T) {
	r := NewRegistry[int]("thing")
	assert.Equal(t, 0, r.Count())

	r.Insert(1)
	r.Insert(2)
	assert.Equal(t, 2, r.Count())
}
