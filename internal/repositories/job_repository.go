package repositories

import (
	"errors"
	"strings"

	"jobhunt_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobFilter struct {
	Query    string
	Type     string
	Location string
	Page     int
	PageSize int // 0 - без пагинации
}

type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error)
	List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	Delete(db *gorm.DB, id string) error
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	if !validID(id) {
		return nil, ErrJobNotFound
	}
	var job models.Job
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

// FindByIDs возвращает существующие вакансии в порядке ids; удаленные пропускаются
func (r *JobRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error) {
	if len(ids) == 0 {
		return []models.Job{}, nil
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []models.Job{}, nil
	}

	var found []models.Job
	if err := db.Where("id IN ?", valid).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Job, len(found))
	for _, j := range found {
		byID[j.ID] = j
	}

	jobs := make([]models.Job, 0, len(found))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			jobs = append(jobs, j)
		}
	}
	return jobs, nil
}

func (r *JobRepositoryImpl) List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	query := db.Model(&models.Job{})

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := likePattern(q)
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(company) LIKE ? ESCAPE '\\' OR LOWER(location) LIKE ? ESCAPE '\\'",
			p, p, p,
		)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(location) LIKE ? ESCAPE '\\'", likePattern(loc))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var jobs []models.Job
	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, total, err
}

// Delete удаляет только вакансию; отклики и ссылки в профилях остаются
func (r *JobRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if !validID(id) {
		return ErrJobNotFound
	}
	result := db.Delete(&models.Job{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}
