package shift

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Store is the persistence contract the lifecycle manager depends on: a
// point lookup plus two conditional writes. Each write carries its own
// precondition on worker presence, so check-then-update races collapse into
// a single atomic statement at the storage layer.
type Store interface {
	// Get returns the shift or ErrNotFound.
	Get(ctx context.Context, id uint64) (*Shift, error)

	// Claim assigns the worker and clears any cancellation timestamp, only
	// if no worker is currently assigned. Returns ErrNoEffect when the
	// precondition does not hold or the shift does not exist.
	Claim(ctx context.Context, id, workerID uint64) (*Shift, error)

	// Cancel records the cancellation time and clears the worker
	// assignment, only if a worker is currently assigned. Returns
	// ErrNoEffect when the precondition does not hold or the shift does
	// not exist.
	Cancel(ctx context.Context, id uint64, at time.Time) (*Shift, error)
}

// GormStore implements Store on a GORM database handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, id uint64) (*Shift, error) {
	var shift Shift
	err := s.db.WithContext(ctx).First(&shift, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

func (s *GormStore) Claim(ctx context.Context, id, workerID uint64) (*Shift, error) {
	res := s.db.WithContext(ctx).Model(&Shift{}).
		Where("id = ? AND worker_id IS NULL", id).
		Updates(map[string]any{
			"worker_id":    workerID,
			"cancelled_at": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoEffect
	}
	return s.Get(ctx, id)
}

func (s *GormStore) Cancel(ctx context.Context, id uint64, at time.Time) (*Shift, error) {
	res := s.db.WithContext(ctx).Model(&Shift{}).
		Where("id = ? AND worker_id IS NOT NULL", id).
		Updates(map[string]any{
			"worker_id":    nil,
			"cancelled_at": at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoEffect
	}
	return s.Get(ctx, id)
}
