package apperrors

import "net/http"

// =========================================================================
// Auth
// =========================================================================

// ErrEmailAlreadyExists - верифицированный аккаунт с таким email уже есть
var ErrEmailAlreadyExists = New(
	CodeEmailAlreadyExists,
	"auth",
	"User already exists",
	http.StatusBadRequest,
)

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid credentials",
	http.StatusBadRequest,
)

// ErrUserNotVerified - вход до подтверждения OTP
var ErrUserNotVerified = New(
	CodeUserNotVerified,
	"auth",
	"Please verify your email first",
	http.StatusBadRequest,
)

// ErrInvalidOTP - код не совпал или истек
var ErrInvalidOTP = New(
	CodeInvalidOTP,
	"auth",
	"Invalid or expired OTP",
	http.StatusBadRequest,
)

// ErrOTPUserNotFound - верификация для неизвестного email
var ErrOTPUserNotFound = New(
	CodeInvalidOTP,
	"auth",
	"User not found",
	http.StatusBadRequest,
)

// ErrAlreadyVerified - повторная отправка OTP уже подтвержденному аккаунту
var ErrAlreadyVerified = New(
	CodeInvalidOTP,
	"auth",
	"Account is already verified",
	http.StatusBadRequest,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrAdminsOnly = New(
	CodeForbidden,
	"auth",
	"Access denied: Admins only",
	http.StatusForbidden,
)

var ErrUsersOnly = New(
	CodeForbidden,
	"auth",
	"Access denied: job seeker account required",
	http.StatusForbidden,
)

// =========================================================================
// Users / Jobs / Applications
// =========================================================================

var ErrUserNotFound = NewNotFoundError("user", "User not found")

var ErrJobNotFound = NewNotFoundError("job", "Job not found")

var ErrApplicationNotFound = NewNotFoundError("application", "Application not found")

var ErrFileNotFound = NewNotFoundError("file", "File not found")

// ErrAlreadyApplied - повторный отклик на ту же вакансию
var ErrAlreadyApplied = New(
	CodeAlreadyApplied,
	"application",
	"You have already applied for this job",
	http.StatusBadRequest,
)

var ErrResumeRequired = New(
	CodeResumeRequired,
	"application",
	"Resume is required",
	http.StatusBadRequest,
)

var ErrInvalidApplicationStatus = New(
	CodeInvalidStatus,
	"application",
	"Invalid status. Allowed: Pending, Shortlisted, Rejected, Waitlisted",
	http.StatusBadRequest,
)

// =========================================================================
// Uploads
// =========================================================================

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)
