package dto

// --- Requests ---

type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Responses ---

type MessageResponse struct {
	Message string `json:"message"`
}

// AuthUser - краткие данные пользователя в ответе на вход
type AuthUser struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	SavedJobs   []string `json:"savedJobs"`
	AppliedJobs []string `json:"appliedJobs"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	Role  string   `json:"role"`
	User  AuthUser `json:"user"`
}
