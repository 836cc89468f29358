package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"facegate.io/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitializeLogger()
	os.Exit(m.Run())
}

func TestStoreSaveWritesDatePartitionedFrame(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	encoded := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x10, 0x20}
	capturedAt := time.Date(2026, time.March, 3, 10, 30, 0, 0, time.UTC)

	frame, err := store.Save("frame", encoded, capturedAt)
	require.NoError(t, err)

	dir := filepath.Dir(frame.Path)
	assert.Equal(t, filepath.Join("2026", "03", "03"), filepath.Join(
		filepath.Base(filepath.Dir(filepath.Dir(dir))),
		filepath.Base(filepath.Dir(dir)),
		filepath.Base(dir),
	))
	assert.Equal(t, ".jpg", filepath.Ext(frame.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(frame.Path), "frame_"))
	assert.Equal(t, len(encoded), frame.SizeBytes)
	assert.Equal(t, "jpeg", frame.Format)

	sum := sha256.Sum256(encoded)
	assert.Equal(t, hex.EncodeToString(sum[:]), frame.SHA256)

	written, err := os.ReadFile(frame.Path)
	require.NoError(t, err)
	assert.Equal(t, encoded, written)
}

func TestStoreReadReturnsStoredBytes(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	encoded := []byte("frame bytes")
	frame, err := store.Save("frame", encoded, time.Now())
	require.NoError(t, err)

	read, err := store.Read(frame.Path)
	require.NoError(t, err)
	assert.Equal(t, encoded, read)
}

func TestStoreReadRejectsPathOutsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	require.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "secret.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("leak"), 0o640))

	_, err = store.Read(outside)
	assert.Error(t, err)

	_, err = store.Read(filepath.Join(root, "..", "escape.jpg"))
	assert.Error(t, err)
}

func TestStoreSaveGeneratesDistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	capturedAt := time.Now()
	first, err := store.Save("frame", []byte("one"), capturedAt)
	require.NoError(t, err)
	second, err := store.Save("frame", []byte("two"), capturedAt)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
}
