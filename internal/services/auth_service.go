package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/resume"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/internal/storage"
	"jobhunt_backend/pkg/apperrors"
)

type AuthService interface {
	Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest, resumeFile *multipart.FileHeader) (*dto.MessageResponse, error)
	VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendOTPRequest) (*dto.MessageResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

// AuthConfig - параметры входа и верификации из конфигурации
type AuthConfig struct {
	AdminEmail    string
	AdminPassword string
	OTPTTL        time.Duration
	MaxResumeSize int64
}

type authService struct {
	userRepo  repositories.UserRepository
	storage   storage.Storage
	extractor resume.TextExtractor
	mailer    EmailService
	tokens    *auth.TokenManager
	cfg       AuthConfig

	inTx txRunner
	now  func() time.Time
}

func NewAuthService(
	userRepo repositories.UserRepository,
	store storage.Storage,
	extractor resume.TextExtractor,
	mailer EmailService,
	tokens *auth.TokenManager,
	cfg AuthConfig,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		storage:   store,
		extractor: extractor,
		mailer:    mailer,
		tokens:    tokens,
		cfg:       cfg,
		inTx:      gormTx,
		now:       time.Now,
	}
}

// Signup - создает или перезаписывает неподтвержденный аккаунт и отправляет OTP
func (s *authService) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest, resumeFile *multipart.FileHeader) (*dto.MessageResponse, error) {
	emailAddr := normalizeEmail(req.Email)
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	existing, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}
	if existing != nil && existing.IsVerified {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := existing
	if user == nil {
		user = &models.User{Email: emailAddr}
	}
	user.Name = strings.TrimSpace(req.Name)
	user.PasswordHash = hash
	user.OTP = otp
	user.OTPExpires = auth.OTPExpiry(s.now(), s.cfg.OTPTTL)

	// ▼▼▼ Резюме: сохраняем файл, для PDF заполняем профиль ▼▼▼
	var storedKey, previousResume string
	if resumeFile != nil {
		upload, err := readUpload(resumeFile, s.cfg.MaxResumeSize)
		if err != nil {
			return nil, err
		}

		storedKey = storage.NewObjectKey("resumes", upload.Name)
		if err := s.storage.Save(ctx, storedKey, upload.Reader(), upload.ContentType); err != nil {
			return nil, apperrors.InternalError(fmt.Errorf("store resume: %w", err))
		}

		previousResume = user.ResumePath
		user.ResumePath = storedKey
		s.applyResume(ctx, user, upload)
	}

	if existing != nil {
		err = s.userRepo.Save(db, user)
	} else {
		err = s.userRepo.Create(db, user)
	}
	if err != nil {
		s.discardFile(ctx, storedKey)
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}
	s.discardFile(ctx, previousResume)

	if err := s.mailer.SendOTP(ctx, user.Email, user.Name, otp); err != nil {
		logger.CtxWithError(ctx, "failed to send otp email", err, "email", user.Email)
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "email",
			"Server error during signup", http.StatusInternalServerError)
	}

	logger.CtxInfo(ctx, "signup otp issued", "user_id", user.ID)
	return &dto.MessageResponse{Message: "OTP sent to email"}, nil
}

// applyResume переносит распознанные поля резюме в профиль; ошибки разбора не фатальны
func (s *authService) applyResume(ctx context.Context, user *models.User, upload *uploadedFile) {
	user.ResumeText = ""
	user.Skills = []string{}
	user.Phone = ""
	user.Bio = ""

	if !resume.IsPDF(upload.Name, upload.Data) {
		return
	}

	text, err := s.extractor.ExtractText(ctx, upload.Data)
	if err != nil {
		logger.CtxWarn(ctx, "resume text extraction failed", "error", err.Error(), "file", upload.Name)
		return
	}

	parsed := resume.Parse(text)
	user.ResumeText = text
	user.Skills = parsed.Skills
	user.Phone = parsed.Phone
	user.Bio = parsed.Bio
}

func (s *authService) discardFile(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "failed to delete stored file", "key", key, "error", err.Error())
	}
}

// VerifyOTP - подтверждает email и выдает токен пользователя
func (s *authService) VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrOTPUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.OTPValid(user.OTP, strings.TrimSpace(req.OTP), user.OTPExpires, s.now()) {
		return nil, apperrors.ErrInvalidOTP
	}

	// Токен выпускается внутри транзакции: при ошибке подписи верификация откатывается
	var token string
	err = s.inTx(db, func(tx *gorm.DB) error {
		if err := s.userRepo.MarkVerified(tx, user.ID); err != nil {
			return err
		}
		var signErr error
		token, signErr = s.tokens.GenerateToken(user.ID, auth.RoleUser)
		return signErr
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user.IsVerified = true
	user.OTP = ""
	user.OTPExpires = 0

	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name); err != nil {
		logger.CtxWarn(ctx, "failed to send welcome email", "error", err.Error(), "user_id", user.ID)
	}

	logger.CtxInfo(ctx, "user verified", "user_id", user.ID)
	return &dto.AuthResponse{
		Token: token,
		Role:  auth.RoleUser.String(),
		User:  toAuthUser(user),
	}, nil
}

// ResendOTP - новый код для неподтвержденного аккаунта
func (s *authService) ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendOTPRequest) (*dto.MessageResponse, error) {
	user, err := s.userRepo.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrOTPUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if user.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateOTP(db, user.ID, otp, auth.OTPExpiry(s.now(), s.cfg.OTPTTL)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.mailer.SendOTP(ctx, user.Email, user.Name, otp); err != nil {
		logger.CtxWithError(ctx, "failed to resend otp email", err, "email", user.Email)
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "email",
			"Failed to send OTP email", http.StatusInternalServerError)
	}

	return &dto.MessageResponse{Message: "OTP sent to email"}, nil
}

// Login - администратор из конфигурации или подтвержденный пользователь
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	emailAddr := normalizeEmail(req.Email)

	if s.isAdmin(emailAddr, req.Password) {
		token, err := s.tokens.GenerateToken(auth.AdminSubject, auth.RoleAdmin)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		logger.CtxInfo(ctx, "admin logged in")
		return &dto.AuthResponse{
			Token: token,
			Role:  auth.RoleAdmin.String(),
			User: dto.AuthUser{
				Name:        "Admin",
				Email:       s.cfg.AdminEmail,
				SavedJobs:   []string{},
				AppliedJobs: []string{},
			},
		}, nil
	}

	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	token, err := s.tokens.GenerateToken(user.ID, auth.RoleUser)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		Token: token,
		Role:  auth.RoleUser.String(),
		User:  toAuthUser(user),
	}, nil
}

func (s *authService) isAdmin(emailAddr, password string) bool {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(emailAddr), []byte(normalizeEmail(s.cfg.AdminEmail))) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	return emailOK && passOK
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func toAuthUser(u *models.User) dto.AuthUser {
	return dto.AuthUser{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		SavedJobs:   nonNil(u.SavedJobs),
		AppliedJobs: nonNil(u.AppliedJobs),
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
