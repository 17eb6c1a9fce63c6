package repositories

import (
	"errors"

	"jobhunt_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, app *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	Exists(db *gorm.DB, userID, jobID string) (bool, error)
	FindByJob(db *gorm.DB, jobID string) ([]models.Application, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
	ExistsByResume(db *gorm.DB, userID, resume string) (bool, error)
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

// Create - нарушение уникального индекса (job_id, user_id) отдается как ErrApplicationExists
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, app *models.Application) error {
	err := db.Create(app).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrApplicationExists
	}
	return err
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	if !validID(id) {
		return nil, ErrApplicationNotFound
	}
	var app models.Application
	err := db.Preload("Job").Preload("User").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Exists(db *gorm.DB, userID, jobID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	return count > 0, err
}

// FindByJob - отклики на вакансию с данными кандидата, новые первыми
func (r *ApplicationRepositoryImpl) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Preload("User").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// FindByUser - отклики пользователя с вакансиями; Job == nil, если вакансия удалена
func (r *ApplicationRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Application, error) {
	var apps []models.Application
	err := db.Preload("Job").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	if !validID(id) {
		return ErrApplicationNotFound
	}
	result := db.Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) ExistsByResume(db *gorm.DB, userID, resume string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("user_id = ? AND resume = ?", userID, resume).
		Count(&count).Error
	return count > 0, err
}
