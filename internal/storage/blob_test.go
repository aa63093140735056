package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-checkin/internal/models"
)

type failingBlob struct {
	*MemoryBlob
	failSet bool
	failGet bool
}

func (f *failingBlob) GetItem(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errors.New("storage disabled")
	}
	return f.MemoryBlob.GetItem(key)
}

func (f *failingBlob) SetItem(key, value string) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.MemoryBlob.SetItem(key, value)
}

func TestBlobStoreEmpty(t *testing.T) {
	store := NewBlobStore(NewMemoryBlob(), zerolog.Nop())

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestBlobStorePrependsUnderFixedKey(t *testing.T) {
	ctx := context.Background()
	blob := NewMemoryBlob()
	store := NewBlobStore(blob, zerolog.Nop())

	require.NoError(t, store.Put(ctx, sample(1, "A")))
	require.NoError(t, store.Put(ctx, sample(2, "B")))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckIn{sample(2, "B"), sample(1, "A")}, all)

	raw, found, err := blob.GetItem("hotel-checkins")
	require.NoError(t, err)
	require.True(t, found)

	var stored []models.CheckIn
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, all, stored)

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", got.GuestName)

	_, err = store.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlobStoreWriteFailure(t *testing.T) {
	blob := &failingBlob{MemoryBlob: NewMemoryBlob(), failSet: true}
	store := NewBlobStore(blob, zerolog.Nop())

	err := store.Put(context.Background(), sample(1, "A"))
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestBlobStoreReadFailure(t *testing.T) {
	blob := &failingBlob{MemoryBlob: NewMemoryBlob(), failGet: true}
	store := NewBlobStore(blob, zerolog.Nop())

	all, err := store.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrListFailed)
	assert.Empty(t, all)

	err = store.Put(context.Background(), sample(1, "A"))
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestBlobStoreKeepsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blob := NewMemoryBlob()
	require.NoError(t, blob.SetItem(BlobKey, "[{broken"))
	store := NewBlobStore(blob, zerolog.Nop())

	all, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, ErrListFailed)
	assert.Empty(t, all)

	err = store.Put(ctx, sample(1, "A"))
	assert.ErrorIs(t, err, ErrWriteFailed)

	raw, _, _ := blob.GetItem(BlobKey)
	assert.Equal(t, "[{broken", raw)
}

func TestFileBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	blob, err := NewFileBlob(dir)
	require.NoError(t, err)
	store := NewBlobStore(blob, zerolog.Nop())

	require.NoError(t, store.Put(ctx, sample(1, "A")))
	require.NoError(t, store.Put(ctx, sample(2, "B")))

	_, err = os.Stat(filepath.Join(dir, "hotel-checkins.json"))
	require.NoError(t, err)

	// a fresh substrate on the same directory sees the same collection
	reopened, err := NewFileBlob(dir)
	require.NoError(t, err)
	all, err := NewBlobStore(reopened, zerolog.Nop()).ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckIn{sample(2, "B"), sample(1, "A")}, all)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileBlobMissingItem(t *testing.T) {
	blob, err := NewFileBlob(t.TempDir())
	require.NoError(t, err)

	_, found, err := blob.GetItem(BlobKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileBlobRejectsPathKeys(t *testing.T) {
	blob, err := NewFileBlob(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, blob.SetItem("../escape", "x"))
	assert.Error(t, blob.SetItem("", "x"))
	_, _, err = blob.GetItem("a/b")
	assert.Error(t, err)
}

func TestNewFileBlobRequiresDir(t *testing.T) {
	_, err := NewFileBlob("  ")
	assert.Error(t, err)
}
