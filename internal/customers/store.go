package customers

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"routeboard/internal/models"
)

// GormFetcher implements Fetcher over the application's gorm handle.
type GormFetcher struct {
	DB *gorm.DB
}

func NewGormFetcher(db *gorm.DB) *GormFetcher {
	return &GormFetcher{DB: db}
}

// FetchPage returns one page of customer stops for a location code together
// with the exact total count for the same predicate.
func (f *GormFetcher) FetchPage(ctx context.Context, code string, page, pageSize int) ([]models.CustomerStop, int64, error) {
	var total int64
	if err := f.DB.WithContext(ctx).
		Model(&models.CustomerStop{}).
		Where("code = ?", code).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customer stops for %q: %w", code, err)
	}

	var stops []models.CustomerStop
	offset := (page - 1) * pageSize
	if err := f.DB.WithContext(ctx).
		Where("code = ?", code).
		Order("customer_name asc").
		Offset(offset).
		Limit(pageSize).
		Find(&stops).Error; err != nil {
		return nil, 0, fmt.Errorf("fetch customer stops for %q: %w", code, err)
	}

	return stops, total, nil
}
