package repositories

import (
	"errors"

	"jobhunt_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Save(db *gorm.DB, user *models.User) error
	MarkVerified(db *gorm.DB, userID string) error
	UpdateOTP(db *gorm.DB, userID, otp string, expiresMs int64) error
	AddSavedJob(db *gorm.DB, userID, jobID string) ([]string, error)
	RemoveSavedJob(db *gorm.DB, userID, jobID string) ([]string, error)
	AddAppliedJob(db *gorm.DB, userID, jobID string) error
	ClearExpiredOTPs(db *gorm.DB, expiredBeforeMs int64) (int64, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	err := db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

// Save перезаписывает все поля (повторная регистрация неподтвержденного аккаунта, профиль)
func (r *UserRepositoryImpl) Save(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) MarkVerified(db *gorm.DB, userID string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_verified": true,
		"otp":         "",
		"otp_expires": 0,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateOTP(db *gorm.DB, userID, otp string, expiresMs int64) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"otp":         otp,
		"otp_expires": expiresMs,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddSavedJob добавляет вакансию в избранное, если ее там нет; возвращает итоговый список.
// Списки пишутся как JSONSlice: голый []string gorm развернет в (?,?)
func (r *UserRepositoryImpl) AddSavedJob(db *gorm.DB, userID, jobID string) ([]string, error) {
	var saved datatypes.JSONSlice[string]
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := r.lockUser(tx, userID)
		if err != nil {
			return err
		}
		saved = user.SavedJobs
		if user.HasSaved(jobID) {
			return nil
		}
		saved = append(saved, jobID)
		return tx.Model(user).Update("saved_jobs", saved).Error
	})
	if err != nil {
		return nil, err
	}
	return []string(saved), nil
}

func (r *UserRepositoryImpl) RemoveSavedJob(db *gorm.DB, userID, jobID string) ([]string, error) {
	var saved datatypes.JSONSlice[string]
	err := db.Transaction(func(tx *gorm.DB) error {
		user, err := r.lockUser(tx, userID)
		if err != nil {
			return err
		}
		saved = make(datatypes.JSONSlice[string], 0, len(user.SavedJobs))
		for _, id := range user.SavedJobs {
			if id != jobID {
				saved = append(saved, id)
			}
		}
		return tx.Model(user).Update("saved_jobs", saved).Error
	})
	if err != nil {
		return nil, err
	}
	return []string(saved), nil
}

func (r *UserRepositoryImpl) AddAppliedJob(db *gorm.DB, userID, jobID string) error {
	user, err := r.lockUser(db, userID)
	if err != nil {
		return err
	}
	if user.HasApplied(jobID) {
		return nil
	}
	applied := append(datatypes.JSONSlice[string]{}, user.AppliedJobs...)
	return db.Model(user).Update("applied_jobs", append(applied, jobID)).Error
}

// ClearExpiredOTPs сбрасывает просроченные коды у неподтвержденных пользователей
func (r *UserRepositoryImpl) ClearExpiredOTPs(db *gorm.DB, expiredBeforeMs int64) (int64, error) {
	result := db.Model(&models.User{}).
		Where("is_verified = ? AND otp <> '' AND otp_expires < ?", false, expiredBeforeMs).
		Updates(map[string]interface{}{"otp": "", "otp_expires": 0})
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) lockUser(db *gorm.DB, userID string) (*models.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}
	var user models.User
	err := db.Clauses(lockingUpdate()).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
