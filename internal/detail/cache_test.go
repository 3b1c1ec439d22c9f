package detail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gpulab/gpuboard/internal/common"
	"github.com/gpulab/gpuboard/internal/gpu"
	"gorm.io/gorm"
)

type countingFetcher struct {
	calls   int
	content string
	err     error
}

func (f *countingFetcher) Fetch(ctx context.Context, name, url string) (string, error) {
	_ = ctx
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&gpu.Record{}, &CacheEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedGPU(t *testing.T, db *gorm.DB, id uint64, name, url string) {
	t.Helper()
	rec := gpu.Record{ID: id, Brand: "NVIDIA", Name: name, SourceURL: url}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("seed gpu: %v", err)
	}
}

func TestGetDetail_MissFetchesAndStores(t *testing.T) {
	db := openTestDB(t)
	seedGPU(t, db, 42, "RTX 4090", "https://example/gpu/42")

	fetcher := &countingFetcher{content: "fetched spec text"}
	m := NewManager(NewRepo(db), gpu.NewRepo(db), fetcher, DefaultCacheTTL)

	d, err := m.GetDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", fetcher.calls)
	}
	if d.FromCache {
		t.Fatalf("first call must not report a cache hit")
	}
	if d.Content != "fetched spec text" || d.Name != "RTX 4090" {
		t.Fatalf("unexpected detail: %+v", d)
	}

	var count int64
	if err := db.Model(&CacheEntry{}).Where("gpu_id = ?", 42).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one cache row, got %d", count)
	}
}

func TestGetDetail_FreshHitSkipsFetch(t *testing.T) {
	db := openTestDB(t)
	seedGPU(t, db, 42, "RTX 4090", "https://example/gpu/42")

	fetcher := &countingFetcher{content: "fetched spec text"}
	m := NewManager(NewRepo(db), gpu.NewRepo(db), fetcher, DefaultCacheTTL)

	first, err := m.GetDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}

	second, err := m.GetDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fresh hit must not fetch, calls=%d", fetcher.calls)
	}
	if !second.FromCache {
		t.Fatalf("second call should come from cache")
	}
	if second.Content != first.Content {
		t.Fatalf("cache content mismatch: %q vs %q", second.Content, first.Content)
	}
}

func TestGetDetail_StaleEntryRefetched(t *testing.T) {
	db := openTestDB(t)
	seedGPU(t, db, 7, "RX 7900 XTX", "https://example/gpu/7")

	fetcher := &countingFetcher{content: "new content"}
	m := NewManager(NewRepo(db), gpu.NewRepo(db), fetcher, DefaultCacheTTL)

	stale := CacheEntry{
		GpuID:           7,
		GpuName:         "RX 7900 XTX",
		SourceURL:       "https://example/gpu/7",
		DetailedContent: "old content",
		UpdatedAt:       time.Now().Add(-31 * 24 * time.Hour),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	d, err := m.GetDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("stale entry must trigger exactly one fetch, got %d", fetcher.calls)
	}
	if d.FromCache || d.Content != "new content" {
		t.Fatalf("expected fresh content, got %+v", d)
	}

	var rows []CacheEntry
	if err := db.Where("gpu_id = ?", 7).Find(&rows).Error; err != nil {
		t.Fatalf("query rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row after refresh, got %d", len(rows))
	}
	if rows[0].DetailedContent != "new content" {
		t.Fatalf("row not overwritten: %q", rows[0].DetailedContent)
	}
	if rows[0].ContentHash == "" {
		t.Fatalf("expected content hash to be recorded")
	}
}

func TestGetDetail_UnknownGPU(t *testing.T) {
	db := openTestDB(t)

	m := NewManager(NewRepo(db), gpu.NewRepo(db), &countingFetcher{}, DefaultCacheTTL)
	_, err := m.GetDetail(context.Background(), 999)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetDetail_NoSourceURL(t *testing.T) {
	db := openTestDB(t)
	seedGPU(t, db, 5, "Old GPU", "")

	fetcher := &countingFetcher{}
	m := NewManager(NewRepo(db), gpu.NewRepo(db), fetcher, DefaultCacheTTL)

	_, err := m.GetDetail(context.Background(), 5)
	if !errors.Is(err, ErrNoSourceURL) {
		t.Fatalf("expected ErrNoSourceURL, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("must not fetch without a source url")
	}
}

func TestGetDetail_FetchErrorPropagates(t *testing.T) {
	db := openTestDB(t)
	seedGPU(t, db, 9, "RTX 4080", "https://example/gpu/9")

	fetcher := &countingFetcher{err: &common.FetchError{Status: 503, Msg: "unavailable"}}
	m := NewManager(NewRepo(db), gpu.NewRepo(db), fetcher, DefaultCacheTTL)

	_, err := m.GetDetail(context.Background(), 9)
	var fe *common.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}

	var count int64
	_ = db.Model(&CacheEntry{}).Where("gpu_id = ?", 9).Count(&count)
	if count != 0 {
		t.Fatalf("failed fetch must not write a cache row")
	}
}
