package detail

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Get returns the cache row for a GPU, or nil when none exists.
func (r *Repo) Get(ctx context.Context, gpuID uint64) (*CacheEntry, error) {
	var e CacheEntry
	if err := r.db.WithContext(ctx).First(&e, "gpu_id = ?", gpuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Upsert replaces the row for entry.GpuID, keeping the one-row-per-GPU
// invariant.
func (r *Repo) Upsert(ctx context.Context, entry *CacheEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "gpu_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"gpu_name", "source_url", "detailed_content", "content_hash", "updated_at",
		}),
	}).Create(entry).Error
}

// DeleteOlderThan removes rows last updated before the cutoff and reports how
// many went away.
func (r *Repo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&CacheEntry{})
	return res.RowsAffected, res.Error
}

// Stats counts rows on either side of the freshness cutoff.
func (r *Repo) Stats(ctx context.Context, cutoff time.Time) (CacheStats, error) {
	var s CacheStats
	tx := r.db.WithContext(ctx).Model(&CacheEntry{})

	if err := tx.Count(&s.TotalEntries).Error; err != nil {
		return s, err
	}
	if err := r.db.WithContext(ctx).Model(&CacheEntry{}).
		Where("updated_at > ?", cutoff).Count(&s.ValidEntries).Error; err != nil {
		return s, err
	}
	s.ExpiredEntries = s.TotalEntries - s.ValidEntries

	if s.TotalEntries > 0 {
		var oldest, newest CacheEntry
		if err := r.db.WithContext(ctx).Order("updated_at ASC").First(&oldest).Error; err != nil {
			return s, err
		}
		if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&newest).Error; err != nil {
			return s, err
		}
		s.OldestCache = &oldest.UpdatedAt
		s.NewestCache = &newest.UpdatedAt
	}
	return s, nil
}
