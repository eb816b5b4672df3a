package tablesync

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	s := NewStore(StoreConfig{})
	s.put("accounts?page=1", "accounts", 42)

	v, ok, stale := s.get("accounts?page=1")
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, 42, v)

	_, ok, _ = s.get("accounts?page=2")
	assert.False(t, ok)
}

func TestStoreMarkStaleKeepsValue(t *testing.T) {
	s := NewStore(StoreConfig{})
	s.put("k", "accounts", "v")
	s.markStale("k")

	v, ok, stale := s.get("k")
	require.True(t, ok)
	assert.True(t, stale)
	assert.Equal(t, "v", v, "stale entries keep serving their last value")
}

func TestStoreTTLExpiryIsStaleNotMiss(t *testing.T) {
	s := NewStore(StoreConfig{TTL: 10 * time.Millisecond})
	s.put("k", "accounts", "v")
	time.Sleep(25 * time.Millisecond)

	v, ok, stale := s.get("k")
	require.True(t, ok)
	assert.True(t, stale)
	assert.Equal(t, "v", v)
}

func TestStoreInvalidateRootScoping(t *testing.T) {
	s := NewStore(StoreConfig{})
	s.put("accounts?page=1", "accounts", 1)
	s.put("accounts?page=2", "accounts", 2)
	s.put("users?page=1", "users", 3)

	s.InvalidateRoot("accounts")

	_, _, stale := s.get("accounts?page=1")
	assert.True(t, stale)
	_, _, stale = s.get("accounts?page=2")
	assert.True(t, stale)
	_, _, stale = s.get("users?page=1")
	assert.False(t, stale, "other roots stay fresh")
}

func TestStoreEvictsLRU(t *testing.T) {
	s := NewStore(StoreConfig{MaxEntries: 2})
	s.put("a", "r", 1)
	s.put("b", "r", 2)
	_, ok, _ := s.get("a") // touch a so b becomes LRU
	require.True(t, ok)

	s.put("c", "r", 3)

	_, ok, _ = s.get("b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok, _ = s.get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
}

func TestStoreSubscribersWokenPerRoot(t *testing.T) {
	s := NewStore(StoreConfig{})
	woken := make(chan string, 4)
	idA := s.subscribe("accounts", func() { woken <- "accounts" })
	s.subscribe("users", func() { woken <- "users" })

	s.InvalidateRoot("accounts")
	select {
	case root := <-woken:
		assert.Equal(t, "accounts", root)
	case <-time.After(time.Second):
		t.Fatal("subscriber not woken")
	}
	select {
	case root := <-woken:
		t.Fatalf("unexpected wakeup for %s", root)
	case <-time.After(20 * time.Millisecond):
	}

	s.unsubscribe(idA)
	s.InvalidateRoot("accounts")
	select {
	case <-woken:
		t.Fatal("unsubscribed controller woken")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStoreOverwriteRefreshes(t *testing.T) {
	s := NewStore(StoreConfig{})
	s.put("k", "r", "old")
	s.markStale("k")
	s.put("k", "r", "new")

	v, ok, stale := s.get("k")
	require.True(t, ok)
	assert.False(t, stale)
	assert.Equal(t, "new", v)
}

func TestStoreLenAfterChurn(t *testing.T) {
	s := NewStore(StoreConfig{MaxEntries: 8})
	for i := 0; i < 20; i++ {
		s.put(fmt.Sprintf("k%d", i), "r", i)
	}
	assert.Equal(t, 8, s.Len())
}
