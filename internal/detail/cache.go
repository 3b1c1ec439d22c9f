package detail

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/gpulab/gpuboard/internal/gpu"
)

// DefaultCacheTTL is how long a cache entry stays fresh. An external sweep may
// delete older rows at any time, so the manager always re-checks age instead
// of trusting row presence.
const DefaultCacheTTL = 30 * 24 * time.Hour

// ErrNoSourceURL means the GPU row exists but carries nothing to fetch.
var ErrNoSourceURL = errors.New("gpu has no source url")

// PageFetcher is the network side of the cache-or-fetch decision.
type PageFetcher interface {
	Fetch(ctx context.Context, name, url string) (string, error)
}

// GPUStore resolves GPU ids to records.
type GPUStore interface {
	GetByID(ctx context.Context, id uint64) (*gpu.Record, error)
}

// Manager owns the cache-validity policy: read the cache row, serve it while
// fresh, otherwise fetch and upsert. Concurrent calls for the same GPU may
// fetch twice; the last upsert wins, which is harmless for idempotent
// per-URL content.
type Manager struct {
	repo    *Repo
	gpus    GPUStore
	fetcher PageFetcher
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(repo *Repo, gpus GPUStore, fetcher PageFetcher, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Manager{
		repo:    repo,
		gpus:    gpus,
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetDetail serves the detail text for one GPU. A fresh cache hit performs no
// network call and no write; a miss or stale hit performs exactly one fetch
// and one upsert.
func (m *Manager) GetDetail(ctx context.Context, gpuID uint64) (Detail, error) {
	entry, err := m.repo.Get(ctx, gpuID)
	if err != nil {
		return Detail{}, err
	}
	if entry != nil && m.now().Sub(entry.UpdatedAt) < m.ttl {
		return Detail{
			GpuID:     gpuID,
			Name:      entry.GpuName,
			URL:       entry.SourceURL,
			Content:   entry.DetailedContent,
			FromCache: true,
		}, nil
	}

	rec, err := m.gpus.GetByID(ctx, gpuID)
	if err != nil {
		return Detail{}, err
	}
	if rec.SourceURL == "" {
		return Detail{}, ErrNoSourceURL
	}

	content, err := m.fetcher.Fetch(ctx, rec.Name, rec.SourceURL)
	if err != nil {
		return Detail{}, err
	}

	sum := sha256.Sum256([]byte(content))
	fresh := &CacheEntry{
		GpuID:           gpuID,
		GpuName:         rec.Name,
		SourceURL:       rec.SourceURL,
		DetailedContent: content,
		ContentHash:     hex.EncodeToString(sum[:]),
		UpdatedAt:       m.now(),
	}
	if err := m.repo.Upsert(ctx, fresh); err != nil {
		// the fetched content is still good; serve it and let the next
		// call retry the write
		log.Printf("[detail] cache upsert failed gpu_id=%d err=%v", gpuID, err)
	}

	return Detail{
		GpuID:     gpuID,
		Name:      rec.Name,
		URL:       rec.SourceURL,
		Content:   content,
		FromCache: false,
	}, nil
}

// TTL reports the freshness window, for the cache admin endpoints.
func (m *Manager) TTL() time.Duration { return m.ttl }
