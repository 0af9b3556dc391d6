package today

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"routeboard/internal/models"
)

// GormStopSource implements StopSource with an exact code match against the
// customer_stops table.
type GormStopSource struct {
	DB *gorm.DB
}

func NewGormStopSource(db *gorm.DB) *GormStopSource {
	return &GormStopSource{DB: db}
}

func (s *GormStopSource) StopsByCode(ctx context.Context, code string) ([]models.CustomerStop, error) {
	var stops []models.CustomerStop
	if err := s.DB.WithContext(ctx).
		Where("code = ?", code).
		Order("customer_name asc").
		Find(&stops).Error; err != nil {
		return nil, fmt.Errorf("stops for code %q: %w", code, err)
	}
	return stops, nil
}
