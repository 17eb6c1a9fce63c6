package services

import (
	"context"

	"gorm.io/gorm"

	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/pkg/apperrors"
)

type AnalyticsService interface {
	GetAdminStats(ctx context.Context, db *gorm.DB) (*dto.AdminStatsResponse, error)
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repositories.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// GetAdminStats - итоги и разбивка по всем статусам в фиксированном порядке, с нулями
func (s *analyticsService) GetAdminStats(ctx context.Context, db *gorm.DB) (*dto.AdminStatsResponse, error) {
	totals, err := s.analyticsRepo.GetTotals(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rows, err := s.analyticsRepo.GetStatusBreakdown(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] += r.Count
	}

	breakdown := make([]dto.StatusCount, 0, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		breakdown = append(breakdown, dto.StatusCount{Status: st, Count: counts[st]})
	}

	return &dto.AdminStatsResponse{
		TotalUsers:        totals.Users,
		TotalJobs:         totals.Jobs,
		TotalApplications: totals.Applications,
		StatusBreakdown:   breakdown,
	}, nil
}
