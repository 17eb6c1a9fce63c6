package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/pkg/apperrors"
)

type JobService interface {
	ListJobs(ctx context.Context, db *gorm.DB, query *dto.JobListQuery) ([]models.Job, int64, error)
	GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error)
	CreateJob(ctx context.Context, db *gorm.DB, req *dto.CreateJobRequest) (*models.Job, error)
	DeleteJob(ctx context.Context, db *gorm.DB, jobID string) error
	SaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error)
	UnsaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error)
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
	}
}

// ListJobs - новые первыми; без page_size возвращает все
func (s *jobService) ListJobs(ctx context.Context, db *gorm.DB, query *dto.JobListQuery) ([]models.Job, int64, error) {
	jobs, total, err := s.jobRepo.List(db, repositories.JobFilter{
		Query:    query.Query,
		Type:     query.Type,
		Location: query.Location,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return jobs, total, nil
}

func (s *jobService) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}
	return job, nil
}

func (s *jobService) CreateJob(ctx context.Context, db *gorm.DB, req *dto.CreateJobRequest) (*models.Job, error) {
	requirements := make([]string, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			requirements = append(requirements, r)
		}
	}

	job := &models.Job{
		Title:        strings.TrimSpace(req.Title),
		Company:      strings.TrimSpace(req.Company),
		Location:     strings.TrimSpace(req.Location),
		Type:         req.Type,
		Description:  strings.TrimSpace(req.Description),
		Requirements: requirements,
		Salary:       strings.TrimSpace(req.Salary),
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "job created", "job_id", job.ID, "title", job.Title)
	return job, nil
}

// DeleteJob удаляет только вакансию; отклики и ссылки у пользователей остаются
func (s *jobService) DeleteJob(ctx context.Context, db *gorm.DB, jobID string) error {
	if err := s.jobRepo.Delete(db, jobID); err != nil {
		return mapJobError(err)
	}
	logger.CtxInfo(ctx, "job deleted", "job_id", jobID)
	return nil
}

func (s *jobService) SaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, mapJobError(err)
	}

	saved, err := s.userRepo.AddSavedJob(db, userID, jobID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return nonNil(saved), nil
}

func (s *jobService) UnsaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error) {
	saved, err := s.userRepo.RemoveSavedJob(db, userID, jobID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return nonNil(saved), nil
}

func mapJobError(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound
	}
	return apperrors.InternalError(err)
}

func mapUserError(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.ErrUserNotFound
	}
	return apperrors.InternalError(err)
}
