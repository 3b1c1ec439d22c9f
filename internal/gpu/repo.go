package gpu

import (
	"context"
	"errors"

	"github.com/gpulab/gpuboard/internal/common"
	"gorm.io/gorm"
)

const listOrder = "release_year DESC, brand, name"

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) All(ctx context.Context) ([]Record, error) {
	var recs []Record
	if err := r.db.WithContext(ctx).Order(listOrder).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repo) ByBrand(ctx context.Context, brand string) ([]Record, error) {
	var recs []Record
	if err := r.db.WithContext(ctx).
		Where("brand = ?", brand).
		Order("release_year DESC, name").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repo) ByYearRange(ctx context.Context, start, end int) ([]Record, error) {
	var recs []Record
	if err := r.db.WithContext(ctx).
		Where("release_year BETWEEN ? AND ?", start, end).
		Order(listOrder).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Search matches the term as a substring of either name or brand.
func (r *Repo) Search(ctx context.Context, term string) ([]Record, error) {
	pattern := "%" + term + "%"
	var recs []Record
	if err := r.db.WithContext(ctx).
		Where("name LIKE ? OR brand LIKE ?", pattern, pattern).
		Order(listOrder).
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *Repo) GetByID(ctx context.Context, id uint64) (*Record, error) {
	var rec Record
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Insert stores one record and returns its assigned id.
func (r *Repo) Insert(ctx context.Context, rec *Record) (uint64, error) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// BatchInsert stores all records in one statement.
func (r *Repo) BatchInsert(ctx context.Context, recs []Record) (int64, error) {
	res := r.db.WithContext(ctx).Create(&recs)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
