package dto

import "jobhunt_backend/internal/models"

type StatusCount struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type AdminStatsResponse struct {
	TotalUsers        int64         `json:"totalUsers"`
	TotalJobs         int64         `json:"totalJobs"`
	TotalApplications int64         `json:"totalApplications"`
	StatusBreakdown   []StatusCount `json:"statusBreakdown"`
}
