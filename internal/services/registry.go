package services

import (
	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/resume"
	"jobhunt_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService        AuthService
	ProfileService     ProfileService
	JobService         JobService
	ApplicationService ApplicationService
	AnalyticsService   AnalyticsService
	EmailService       EmailService
}

// Dependencies - внешние зависимости сервисов
type Dependencies struct {
	Storage   storage.Storage
	Extractor resume.TextExtractor
	Mailer    EmailService
	Tokens    *auth.TokenManager
	Auth      AuthConfig
}

// NewServiceContainer собирает сервисы поверх stateless репозиториев
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	appRepo := repositories.NewApplicationRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()

	return &ServiceContainer{
		AuthService:    NewAuthService(userRepo, deps.Storage, deps.Extractor, deps.Mailer, deps.Tokens, deps.Auth),
		ProfileService: NewProfileService(userRepo),
		JobService:     NewJobService(jobRepo, userRepo),
		ApplicationService: NewApplicationService(
			appRepo, jobRepo, userRepo, deps.Storage, deps.Mailer, deps.Auth.MaxResumeSize,
		),
		AnalyticsService: NewAnalyticsService(analyticsRepo),
		EmailService:     deps.Mailer,
	}
}
