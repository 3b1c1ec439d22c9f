package detail

import "time"

// CacheEntry is the stored extract of one GPU's detail page. At most one row
// exists per gpu_id; writes are insert-or-replace. Freshness is decided by
// row age alone; ContentHash is diagnostic metadata and never drives
// invalidation. The manager owns UpdatedAt, so gorm's automatic timestamp
// tracking is disabled.
type CacheEntry struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	GpuID           uint64    `gorm:"uniqueIndex;not null" json:"gpu_id"`
	GpuName         string    `gorm:"type:varchar(128);not null" json:"gpu_name"`
	SourceURL       string    `gorm:"type:varchar(512)" json:"source_url"`
	DetailedContent string    `gorm:"type:text" json:"detailed_content"`
	ContentHash     string    `gorm:"type:varchar(64)" json:"content_hash"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (CacheEntry) TableName() string { return "gpu_detail_cache" }

// Detail is what the cache manager hands to callers.
type Detail struct {
	GpuID     uint64 `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Content   string `json:"content"`
	FromCache bool   `json:"cached"`
}

// CacheStats summarizes the cache table for the status endpoint.
type CacheStats struct {
	TotalEntries   int64      `json:"total_entries"`
	ValidEntries   int64      `json:"valid_entries"`
	ExpiredEntries int64      `json:"expired_entries"`
	OldestCache    *time.Time `json:"oldest_cache"`
	NewestCache    *time.Time `json:"newest_cache"`
}
