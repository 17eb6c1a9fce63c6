package services

import (
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/services/dto"
)

// Этапы таймлайна отклика на дашборде кандидата
const (
	StageApplied     = "Applied"
	StageUnderReview = "Under Review"
	StageDecision    = "Decision"
)

// BuildTimeline: Applied всегда зеленый; Under Review желтый пока Pending;
// цвет Decision зависит от итогового статуса
func BuildTimeline(status models.ApplicationStatus) []dto.TimelineStage {
	review := dto.StageGreen
	if status == models.ApplicationStatusPending {
		review = dto.StageYellow
	}

	var decision string
	switch status {
	case models.ApplicationStatusShortlisted:
		decision = dto.StageGreen
	case models.ApplicationStatusRejected:
		decision = dto.StageRed
	case models.ApplicationStatusWaitlisted:
		decision = dto.StageYellow
	default:
		decision = dto.StageGray
	}

	return []dto.TimelineStage{
		{Label: StageApplied, Color: dto.StageGreen},
		{Label: StageUnderReview, Color: review},
		{Label: StageDecision, Color: decision},
	}
}
