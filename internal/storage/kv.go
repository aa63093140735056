package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"hotel-checkin/internal/models"
)

// KV is a namespaced key-value substrate
type KV interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// KVStore keeps one serialized record per key under KeyPrefix
type KVStore struct {
	kv  KV
	log zerolog.Logger
}

// NewKVStore creates a store backed by a key-value substrate
func NewKVStore(kv KV, log zerolog.Logger) *KVStore {
	return &KVStore{
		kv:  kv,
		log: log.With().Str("store", "kv").Logger(),
	}
}

// Put writes the record under checkin:<id>
func (s *KVStore) Put(ctx context.Context, checkIn models.CheckIn) error {
	data, err := json.Marshal(checkIn)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal check-in %d: %v", ErrWriteFailed, checkIn.ID, err)
	}

	key := Key(checkIn.ID)
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Error saving check-in")
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, key, err)
	}
	return nil
}

// Get reads a single record by id
func (s *KVStore) Get(ctx context.Context, id int64) (models.CheckIn, error) {
	return s.read(ctx, Key(id))
}

// ListAll reads every record under KeyPrefix, skipping unreadable keys
func (s *KVStore) ListAll(ctx context.Context) ([]models.CheckIn, error) {
	keys, err := s.kv.List(ctx, KeyPrefix)
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting check-ins")
		return []models.CheckIn{}, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	checkIns := make([]models.CheckIn, 0, len(keys))
	var errs []error
	for _, key := range keys {
		if _, ok := ParseKey(key); !ok {
			s.log.Warn().Str("key", key).Msg("Skipping key outside the check-in scheme")
			continue
		}
		checkIn, err := s.read(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// removed between list and get
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("Error reading check-in")
			errs = append(errs, err)
			continue
		}
		checkIns = append(checkIns, checkIn)
	}
	return checkIns, errors.Join(errs...)
}

func (s *KVStore) read(ctx context.Context, key string) (models.CheckIn, error) {
	value, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("%w: %s: %v", ErrReadFailed, key, err)
	}
	if !found || value == "" {
		return models.CheckIn{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	var checkIn models.CheckIn
	if err := json.Unmarshal([]byte(value), &checkIn); err != nil {
		return models.CheckIn{}, fmt.Errorf("%w: %s: %v", ErrReadFailed, key, err)
	}
	return checkIn, nil
}
