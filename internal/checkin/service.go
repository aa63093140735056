// Package checkin creates, lists and filters guest check-ins on top of a
// storage.Store.
package checkin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"hotel-checkin/internal/models"
	"hotel-checkin/internal/storage"
)

// Service is the check-in service
type Service struct {
	store storage.Store
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.Mutex
	lastID int64
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a check-in service. Pass zerolog.Nop() to silence logs.
func NewService(store storage.Store, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCheckIn stores a new record built from fields. Fields are not
// validated here. On failure the zero record is returned with an error
// wrapping storage.ErrWriteFailed.
func (s *Service) AddCheckIn(ctx context.Context, fields models.Fields) (models.CheckIn, error) {
	id := s.nextID(s.now())
	checkIn := models.NewCheckIn(id, fields, time.UnixMilli(id))

	if err := s.store.Put(ctx, checkIn); err != nil {
		if !errors.Is(err, storage.ErrWriteFailed) {
			err = fmt.Errorf("%w: %v", storage.ErrWriteFailed, err)
		}
		s.log.Error().Err(err).Int64("id", checkIn.ID).Msg("Error saving check-in")
		return models.CheckIn{}, err
	}

	s.log.Info().
		Int64("id", checkIn.ID).
		Str("room", checkIn.RoomNumber).
		Str("check_in_date", checkIn.CheckInDate).
		Msg("Check-in saved")
	return checkIn, nil
}

// GetCheckIns returns every readable record in no particular order. The
// slice is never nil; see storage.Store for the error semantics.
func (s *Service) GetCheckIns(ctx context.Context) ([]models.CheckIn, error) {
	checkIns, err := s.store.ListAll(ctx)
	if checkIns == nil {
		checkIns = []models.CheckIn{}
	}
	if err != nil {
		s.log.Warn().Err(err).Int("returned", len(checkIns)).Msg("Check-in listing incomplete")
	}
	return checkIns, err
}

// GetCheckInsByDate returns the records whose check-in date falls on the
// same calendar day as date. Records with an unparsable date never match.
// An unparsable date returns an empty result and ErrInvalidDate.
func (s *Service) GetCheckInsByDate(ctx context.Context, date string) ([]models.CheckIn, error) {
	target, err := ParseDate(date)
	if err != nil {
		s.log.Warn().Err(err).Msg("Invalid check-in date filter")
		return []models.CheckIn{}, err
	}

	all, err := s.GetCheckIns(ctx)
	result := make([]models.CheckIn, 0)
	for _, c := range all {
		d, perr := ParseDate(c.CheckInDate)
		if perr != nil {
			continue
		}
		if d == target {
			result = append(result, c)
		}
	}
	return result, err
}

// RecentCheckIns returns records most recent first, at most limit of them
// when limit is positive.
func (s *Service) RecentCheckIns(ctx context.Context, limit int) ([]models.CheckIn, error) {
	checkIns, err := s.GetCheckIns(ctx)
	SortRecent(checkIns)
	if limit > 0 && len(checkIns) > limit {
		checkIns = checkIns[:limit]
	}
	return checkIns, err
}

// SortRecent orders records by id, newest first
func SortRecent(checkIns []models.CheckIn) {
	sort.SliceStable(checkIns, func(i, j int) bool {
		return checkIns[i].ID > checkIns[j].ID
	})
}

// nextID returns now in milliseconds, bumped past the last issued id
func (s *Service) nextID(now time.Time) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}
