package models

import "gorm.io/datatypes"

type Job struct {
	BaseModel
	Title        string                      `gorm:"not null;index" json:"title"`
	Company      string                      `gorm:"not null" json:"company"`
	Location     string                      `gorm:"not null" json:"location"`
	Type         string                      `gorm:"type:varchar(32);not null" json:"type"`
	Description  string                      `gorm:"type:text;not null" json:"description"`
	Requirements datatypes.JSONSlice[string] `json:"requirements"`
	Salary       string                      `json:"salary,omitempty"`
}
