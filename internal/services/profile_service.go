package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/pkg/apperrors"
)

type ProfileService interface {
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	userRepo repositories.UserRepository
}

func NewProfileService(userRepo repositories.UserRepository) ProfileService {
	return &profileService{userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

// UpdateProfile меняет только переданные поля; email не редактируется
func (s *profileService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewBadRequestError("Name cannot be empty")
		}
		user.Name = name
	}
	if req.Title != nil {
		user.Title = strings.TrimSpace(*req.Title)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Skills != nil {
		user.Skills = NormalizeSkills(req.Skills)
	}

	if err := s.userRepo.Save(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return toProfileResponse(user), nil
}

func (s *profileService) findUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// NormalizeSkills обрезает пробелы, убирает пустые и повторы (без учета регистра), сохраняя порядок
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk == "" {
			continue
		}
		key := strings.ToLower(sk)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, sk)
	}
	return out
}

func toProfileResponse(u *models.User) *dto.ProfileResponse {
	skills := []string(u.Skills)
	if skills == nil {
		skills = []string{}
	}
	return &dto.ProfileResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Title:       u.Title,
		Bio:         u.Bio,
		Phone:       u.Phone,
		Skills:      skills,
		ResumePath:  u.ResumePath,
		IsVerified:  u.IsVerified,
		SavedJobs:   nonNil(u.SavedJobs),
		AppliedJobs: nonNil(u.AppliedJobs),
		CreatedAt:   u.CreatedAt,
	}
}
