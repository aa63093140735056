package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"hotel-checkin/internal/models"
)

const (
	// KeyPrefix namespaces check-in records in a key-value substrate
	KeyPrefix = "checkin:"
	// BlobKey is the single key holding the whole collection in a blob substrate
	BlobKey = "hotel-checkins"
)

var (
	ErrWriteFailed = errors.New("check-in not saved")
	ErrReadFailed  = errors.New("check-in unreadable")
	ErrListFailed  = errors.New("check-ins could not be listed")
	ErrNotFound    = errors.New("check-in not found")
)

// Store persists check-in records.
//
// ListAll always returns a usable slice. When some records could not be read
// the error joins one ErrReadFailed per skipped record and the slice holds the
// rest; when the enumeration itself failed the slice is empty and the error
// wraps ErrListFailed.
type Store interface {
	Put(ctx context.Context, checkIn models.CheckIn) error
	Get(ctx context.Context, id int64) (models.CheckIn, error)
	ListAll(ctx context.Context) ([]models.CheckIn, error)
}

// Key returns the key-value key of a check-in id
func Key(id int64) string {
	return KeyPrefix + strconv.FormatInt(id, 10)
}

// ParseKey extracts the check-in id from a key
func ParseKey(key string) (int64, bool) {
	rest, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
