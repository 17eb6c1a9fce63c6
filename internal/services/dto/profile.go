package dto

import "time"

type ProfileResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Title       string    `json:"title"`
	Bio         string    `json:"bio"`
	Phone       string    `json:"phone"`
	Skills      []string  `json:"skills"`
	ResumePath  string    `json:"resumePath"`
	IsVerified  bool      `json:"isVerified"`
	SavedJobs   []string  `json:"savedJobs"`
	AppliedJobs []string  `json:"appliedJobs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UpdateProfileRequest - nil поля не меняются
type UpdateProfileRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Title  *string  `json:"title" validate:"omitempty,max=120"`
	Bio    *string  `json:"bio" validate:"omitempty,max=2000"`
	Phone  *string  `json:"phone" validate:"omitempty,max=32"`
	Skills []string `json:"skills" validate:"omitempty,max=100,dive,max=64"`
}
