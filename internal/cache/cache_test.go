package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	hash := HashBytes([]byte("import os\n"))
	require.NoError(t, c.SetWithHash("src/app.py", hash, []byte(`{"complexity":1}`)))

	data, ok := c.GetWithHash("src/app.py", hash)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"complexity":1}`), data)
}

func TestCacheHashMismatch(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", HashBytes([]byte("old")), []byte("x")))

	_, ok := c.GetWithHash("a.py", HashBytes([]byte("new")))
	assert.False(t, ok)
}

func TestCacheDisabled(t *testing.T) {
	c, err := New("", 1, false)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h", []byte("x")))
	_, ok := c.GetWithHash("a.py", "h")
	assert.False(t, ok)
	assert.NoError(t, c.Clear())
}

func TestCacheExpiredEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h", []byte("x")))

	// Backdate the entry past the TTL.
	c.ttl = -time.Second
	_, ok := c.GetWithHash("a.py", "h")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c, err := New(t.TempDir(), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h", []byte("x")))
	require.NoError(t, c.Invalidate("a.py"))

	_, ok := c.GetWithHash("a.py", "h")
	assert.False(t, ok)
}

func TestCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h", []byte("x")))
	require.NoError(t, os.WriteFile(c.keyPath("a.py"), []byte("not json"), 0o600))

	_, ok := c.GetWithHash("a.py", "h")
	assert.False(t, ok)
}

func TestCacheStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(dir, 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h1", []byte("x")))
	require.NoError(t, c.SetWithHash("b.py", "h2", []byte("y")))

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Positive(t, stats.TotalSize)
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, "cache"), 1, true)
	require.NoError(t, err)

	require.NoError(t, c.SetWithHash("a.py", "h", []byte("x")))
	require.NoError(t, c.Clear())

	_, ok := c.GetWithHash("a.py", "h")
	assert.False(t, ok)
}

func TestHashBytesStable(t *testing.T) {
	assert.Equal(t, HashBytes([]byte("abc")), HashBytes([]byte("abc")))
	assert.NotEqual(t, HashBytes([]byte("abc")), HashBytes([]byte("abd")))
	assert.Len(t, HashBytes(nil), 64)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\n"), 0o644))

	h, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashBytes([]byte("import os\n")), h)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.py"))
	assert.Error(t, err)
}
