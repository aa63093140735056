package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"hotel-checkin/internal/models"
)

// Blob is a substrate holding one string value per key
type Blob interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
}

// BlobStore keeps the whole collection as one JSON array under BlobKey.
// New records are prepended so the stored order is most recent first.
type BlobStore struct {
	mu   sync.Mutex
	blob Blob
	log  zerolog.Logger
}

// NewBlobStore creates a store backed by a blob substrate
func NewBlobStore(blob Blob, log zerolog.Logger) *BlobStore {
	return &BlobStore{
		blob: blob,
		log:  log.With().Str("store", "blob").Logger(),
	}
}

// Put prepends the record and rewrites the collection
func (s *BlobStore) Put(ctx context.Context, checkIn models.CheckIn) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	checkIns, err := s.load()
	if err != nil {
		// never overwrite a collection we could not parse
		s.log.Error().Err(err).Msg("Error saving check-in")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	checkIns = append([]models.CheckIn{checkIn}, checkIns...)
	data, err := json.Marshal(checkIns)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal data: %v", ErrWriteFailed, err)
	}

	if err := s.blob.SetItem(BlobKey, string(data)); err != nil {
		s.log.Error().Err(err).Msg("Error saving check-in")
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Get finds a record by id in the collection
func (s *BlobStore) Get(ctx context.Context, id int64) (models.CheckIn, error) {
	checkIns, err := s.ListAll(ctx)
	if err != nil {
		return models.CheckIn{}, err
	}
	for _, c := range checkIns {
		if c.ID == id {
			return c, nil
		}
	}
	return models.CheckIn{}, fmt.Errorf("%w: %d", ErrNotFound, id)
}

// ListAll returns the whole collection in stored order
func (s *BlobStore) ListAll(ctx context.Context) ([]models.CheckIn, error) {
	if err := ctx.Err(); err != nil {
		return []models.CheckIn{}, fmt.Errorf("%w: %v", ErrListFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	checkIns, err := s.load()
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting check-ins")
		return []models.CheckIn{}, fmt.Errorf("%w: %v", ErrListFailed, err)
	}
	return checkIns, nil
}

func (s *BlobStore) load() ([]models.CheckIn, error) {
	value, found, err := s.blob.GetItem(BlobKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", BlobKey, err)
	}
	if !found || value == "" {
		return make([]models.CheckIn, 0), nil
	}

	var checkIns []models.CheckIn
	if err := json.Unmarshal([]byte(value), &checkIns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if checkIns == nil {
		checkIns = make([]models.CheckIn, 0)
	}
	return checkIns, nil
}
