package models

type Application struct {
	BaseModel
	JobID       string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user" json:"job"`
	UserID      string            `gorm:"type:uuid;not null;uniqueIndex:idx_application_job_user;index" json:"user"`
	Resume      string            `gorm:"not null" json:"resume"`
	CoverLetter string            `gorm:"type:text" json:"coverLetter,omitempty"`
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`

	// Relations (FK не создаются, см. app.openDatabase)
	Job  *Job  `gorm:"foreignKey:JobID" json:"-"`
	User *User `gorm:"foreignKey:UserID" json:"-"`
}
