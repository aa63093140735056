package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-checkin/internal/models"
)

// faultyKV wraps MemoryKV and fails on demand
type faultyKV struct {
	*MemoryKV
	failSet  bool
	failList bool
	failGet  map[string]bool
}

func newFaultyKV() *faultyKV {
	return &faultyKV{MemoryKV: NewMemoryKV(), failGet: map[string]bool{}}
}

func (f *faultyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errors.New("quota exceeded")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func (f *faultyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet[key] {
		return "", false, errors.New("read error")
	}
	return f.MemoryKV.Get(ctx, key)
}

func (f *faultyKV) List(ctx context.Context, prefix string) ([]string, error) {
	if f.failList {
		return nil, errors.New("list unavailable")
	}
	return f.MemoryKV.List(ctx, prefix)
}

func sample(id int64, name string) models.CheckIn {
	return models.CheckIn{
		ID:          id,
		GuestName:   name,
		RoomNumber:  "101",
		CheckInDate: "2024-03-01",
		CreatedAt:   "2024-03-01T10:00:00.000Z",
	}
}

func TestKeyScheme(t *testing.T) {
	assert.Equal(t, "checkin:1709287200000", Key(1709287200000))

	id, ok := ParseKey("checkin:42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ParseKey("guest:42")
	assert.False(t, ok)
	_, ok = ParseKey("checkin:abc")
	assert.False(t, ok)
}

func TestKVStoreListAllSkipsForeignKeys(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewKVStore(kv, zerolog.Nop())

	john := sample(1709287200000, "John Smith")
	require.NoError(t, store.Put(ctx, john))
	require.NoError(t, kv.Set(ctx, "checkin:abc", "not json"))
	require.NoError(t, kv.Set(ctx, "checkin:", `{"id":1}`))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckIn{john}, all)
}

func TestKVStorePutWritesRecordJSON(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewKVStore(kv, zerolog.Nop())

	require.NoError(t, store.Put(ctx, sample(7, "John Smith")))

	raw, found, err := kv.Get(ctx, "checkin:7")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{
		"id": 7,
		"guestName": "John Smith",
		"roomNumber": "101",
		"checkInDate": "2024-03-01",
		"checkOutDate": "",
		"notes": "",
		"createdAt": "2024-03-01T10:00:00.000Z"
	}`, raw)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, sample(7, "John Smith"), got)
}

func TestKVStoreGetMissing(t *testing.T) {
	store := NewKVStore(NewMemoryKV(), zerolog.Nop())
	_, err := store.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKVStoreListAllIgnoresOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	store := NewKVStore(kv, zerolog.Nop())

	require.NoError(t, store.Put(ctx, sample(1, "A")))
	require.NoError(t, store.Put(ctx, sample(2, "B")))
	require.NoError(t, kv.Set(ctx, "settings:theme", "dark"))

	all, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.CheckIn{sample(1, "A"), sample(2, "B")}, all)
}

func TestKVStoreWriteFailure(t *testing.T) {
	kv := newFaultyKV()
	kv.failSet = true
	store := NewKVStore(kv, zerolog.Nop())

	err := store.Put(context.Background(), sample(1, "A"))
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestKVStoreSkipsUnreadableKeys(t *testing.T) {
	ctx := context.Background()
	kv := newFaultyKV()
	store := NewKVStore(kv, zerolog.Nop())

	require.NoError(t, store.Put(ctx, sample(1, "A")))
	require.NoError(t, store.Put(ctx, sample(2, "B")))
	require.NoError(t, store.Put(ctx, sample(3, "C")))
	require.NoError(t, kv.MemoryKV.Set(ctx, "checkin:4", "{not json"))
	kv.failGet["checkin:2"] = true

	all, err := store.ListAll(ctx)
	assert.ErrorIs(t, err, ErrReadFailed)
	assert.NotErrorIs(t, err, ErrListFailed)
	assert.ElementsMatch(t, []models.CheckIn{sample(1, "A"), sample(3, "C")}, all)
}

func TestKVStoreListFailure(t *testing.T) {
	kv := newFaultyKV()
	kv.failList = true
	store := NewKVStore(kv, zerolog.Nop())

	all, err := store.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrListFailed)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestMemoryKVListIsPrefixScoped(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "checkin:2", "b"))
	require.NoError(t, kv.Set(ctx, "checkin:1", "a"))
	require.NoError(t, kv.Set(ctx, "check", "x"))

	keys, err := kv.List(ctx, KeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"checkin:1", "checkin:2"}, keys)
}
