package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/internal/storage"
	"jobhunt_backend/pkg/apperrors"
)

// StatusEmailWarning возвращается, если статус сохранен, а письмо не ушло
const StatusEmailWarning = "Status updated but email notification failed"

type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.ApplyRequest, resumeFile *multipart.FileHeader) (*models.Application, error)
	ListApplicants(ctx context.Context, db *gorm.DB, jobID string) (*dto.ApplicantsResponse, error)
	GetApplication(ctx context.Context, db *gorm.DB, appID, requesterID string, role auth.Role) (*dto.ApplicationView, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, appID string, req *dto.UpdateStatusRequest) (*dto.StatusUpdateResponse, error)
	Dashboard(ctx context.Context, db *gorm.DB, userID string) (*dto.DashboardResponse, error)
	AuthorizeResumeAccess(ctx context.Context, db *gorm.DB, key, requesterID string, role auth.Role) error
}

type applicationService struct {
	appRepo       repositories.ApplicationRepository
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	storage       storage.Storage
	mailer        EmailService
	maxResumeSize int64

	inTx txRunner
}

func NewApplicationService(
	appRepo repositories.ApplicationRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	mailer EmailService,
	maxResumeSize int64,
) ApplicationService {
	return &applicationService{
		appRepo:       appRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		storage:       store,
		mailer:        mailer,
		maxResumeSize: maxResumeSize,
		inTx:          gormTx,
	}
}

// Apply - файл сохраняется до записи в БД; запись отклика и appliedJobs идут одной транзакцией
func (s *applicationService) Apply(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.ApplyRequest, resumeFile *multipart.FileHeader) (*models.Application, error) {
	if _, err := s.jobRepo.FindByID(db, jobID); err != nil {
		return nil, mapJobError(err)
	}

	exists, err := s.appRepo.Exists(db, userID, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	if resumeFile == nil {
		return nil, apperrors.ErrResumeRequired
	}
	upload, err := readUpload(resumeFile, s.maxResumeSize)
	if err != nil {
		return nil, err
	}

	key := storage.NewObjectKey("resumes", upload.Name)
	if err := s.storage.Save(ctx, key, upload.Reader(), upload.ContentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("store resume: %w", err))
	}

	app := &models.Application{
		JobID:       jobID,
		UserID:      userID,
		Resume:      key,
		CoverLetter: strings.TrimSpace(req.CoverLetter),
		Status:      models.ApplicationStatusPending,
	}

	err = s.inTx(db, func(tx *gorm.DB) error {
		if err := s.appRepo.Create(tx, app); err != nil {
			return err
		}
		return s.userRepo.AddAppliedJob(tx, userID, jobID)
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to delete orphaned resume", "key", key, "error", delErr.Error())
		}
		switch {
		case errors.Is(err, repositories.ErrApplicationExists):
			return nil, apperrors.ErrAlreadyApplied
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "application submitted", "application_id", app.ID, "job_id", jobID)
	return app, nil
}

// ListApplicants - отклики на вакансию с данными кандидатов, новые первыми
func (s *applicationService) ListApplicants(ctx context.Context, db *gorm.DB, jobID string) (*dto.ApplicantsResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, mapJobError(err)
	}

	apps, err := s.appRepo.FindByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ApplicantView, 0, len(apps))
	for _, a := range apps {
		if a.User == nil {
			continue
		}
		views = append(views, dto.ApplicantView{
			ID:    a.ID,
			JobID: a.JobID,
			User: dto.ApplicantUser{
				ID:     a.User.ID,
				Name:   a.User.Name,
				Email:  a.User.Email,
				Phone:  a.User.Phone,
				Title:  a.User.Title,
				Skills: nonNil(a.User.Skills),
			},
			Resume:      a.Resume,
			CoverLetter: a.CoverLetter,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt,
		})
	}

	return &dto.ApplicantsResponse{
		JobTitle:     job.Title,
		Applications: views,
	}, nil
}

// GetApplication - доступно владельцу отклика и администратору
func (s *applicationService) GetApplication(ctx context.Context, db *gorm.DB, appID, requesterID string, role auth.Role) (*dto.ApplicationView, error) {
	app, err := s.findApplication(db, appID)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdmin(role) && app.UserID != requesterID {
		return nil, apperrors.NewForbiddenError("Access denied")
	}

	view := toApplicationView(app)
	return &view, nil
}

// UpdateStatus - смена статуса с уведомлением; ошибка письма не отменяет смену.
// Повторная установка того же статуса ничего не меняет и письмо не отправляет.
func (s *applicationService) UpdateStatus(ctx context.Context, db *gorm.DB, appID string, req *dto.UpdateStatusRequest) (*dto.StatusUpdateResponse, error) {
	status := models.ApplicationStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidApplicationStatus
	}

	app, err := s.findApplication(db, appID)
	if err != nil {
		return nil, err
	}

	if app.Status == status {
		return &dto.StatusUpdateResponse{Application: app}, nil
	}

	if err := s.appRepo.UpdateStatus(db, app.ID, status); err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	previous := app.Status
	app.Status = status

	logger.CtxInfo(ctx, "application status changed",
		"application_id", app.ID, "from", previous, "to", status)

	resp := &dto.StatusUpdateResponse{Application: app}
	if app.User == nil || app.Job == nil {
		logger.CtxWarn(ctx, "status email skipped: user or job missing", "application_id", app.ID)
		resp.Warning = StatusEmailWarning
		return resp, nil
	}

	if err := s.mailer.SendApplicationStatus(ctx, app.User.Email, app.User.Name, app.Job, status); err != nil {
		logger.CtxWarn(ctx, "status email failed", "application_id", app.ID, "error", err.Error())
		resp.Warning = StatusEmailWarning
	}
	return resp, nil
}

// Dashboard - избранные вакансии и отклики с таймлайном; записи удаленных вакансий отбрасываются
func (s *applicationService) Dashboard(ctx context.Context, db *gorm.DB, userID string) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	saved, err := s.jobRepo.FindByIDs(db, user.SavedJobs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if saved == nil {
		saved = []models.Job{}
	}

	apps, err := s.appRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	applied := make([]dto.ApplicationView, 0, len(apps))
	for i := range apps {
		if apps[i].Job == nil {
			continue
		}
		applied = append(applied, toApplicationView(&apps[i]))
	}

	return &dto.DashboardResponse{
		Saved:   saved,
		Applied: applied,
	}, nil
}

// AuthorizeResumeAccess - администратор или владелец файла (резюме профиля или отклика)
func (s *applicationService) AuthorizeResumeAccess(ctx context.Context, db *gorm.DB, key, requesterID string, role auth.Role) error {
	if auth.IsAdmin(role) {
		return nil
	}

	user, err := s.userRepo.FindByID(db, requesterID)
	if err != nil {
		return mapUserError(err)
	}
	if user.ResumePath == key {
		return nil
	}

	owned, err := s.appRepo.ExistsByResume(db, requesterID, key)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !owned {
		return apperrors.NewForbiddenError("Access denied")
	}
	return nil
}

func (s *applicationService) findApplication(db *gorm.DB, appID string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(db, appID)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

func toApplicationView(a *models.Application) dto.ApplicationView {
	return dto.ApplicationView{
		ID:          a.ID,
		Job:         a.Job,
		UserID:      a.UserID,
		Resume:      a.Resume,
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		Timeline:    BuildTimeline(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
