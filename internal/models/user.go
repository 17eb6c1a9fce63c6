package models

import "gorm.io/datatypes"

type User struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// OTP и срок действия (epoch ms); очищаются после верификации
	OTP        string `gorm:"column:otp" json:"-"`
	OTPExpires int64  `gorm:"column:otp_expires" json:"-"`
	IsVerified bool   `gorm:"default:false;index" json:"isVerified"`

	Title  string                      `json:"title"`
	Bio    string                      `gorm:"type:text" json:"bio"`
	Phone  string                      `json:"phone"`
	Skills datatypes.JSONSlice[string] `json:"skills"`

	ResumePath string `json:"resumePath"`
	ResumeText string `gorm:"type:text" json:"-"`

	// Ссылки на вакансии; удаленные вакансии остаются в списках и отфильтровываются при чтении
	SavedJobs   datatypes.JSONSlice[string] `json:"savedJobs"`
	AppliedJobs datatypes.JSONSlice[string] `json:"appliedJobs"`
}

// HasSaved - вакансия уже в избранном
func (u *User) HasSaved(jobID string) bool {
	return containsID(u.SavedJobs, jobID)
}

func (u *User) HasApplied(jobID string) bool {
	return containsID(u.AppliedJobs, jobID)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
