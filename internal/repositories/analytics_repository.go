package repositories

import (
	"jobhunt_backend/internal/models"

	"gorm.io/gorm"
)

// StatusCount - количество откликов в статусе
type StatusCount struct {
	Status models.ApplicationStatus
	Count  int64
}

type PlatformTotals struct {
	Users        int64
	Jobs         int64
	Applications int64
}

type AnalyticsRepository interface {
	GetTotals(db *gorm.DB) (*PlatformTotals, error)
	GetStatusBreakdown(db *gorm.DB) ([]StatusCount, error)
}

type analyticsRepository struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepository{}
}

func (r *analyticsRepository) GetTotals(db *gorm.DB) (*PlatformTotals, error) {
	var totals PlatformTotals
	if err := db.Model(&models.User{}).Count(&totals.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Job{}).Count(&totals.Jobs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Application{}).Count(&totals.Applications).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

// GetStatusBreakdown - GROUP BY status; отсутствующие статусы не возвращаются
func (r *analyticsRepository) GetStatusBreakdown(db *gorm.DB) ([]StatusCount, error) {
	var rows []StatusCount
	err := db.Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}
