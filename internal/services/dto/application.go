package dto

import (
	"time"

	"jobhunt_backend/internal/models"
)

type ApplyRequest struct {
	CoverLetter string `form:"coverLetter" validate:"omitempty,max=5000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

// StatusUpdateResponse - Warning заполнен, если письмо кандидату не ушло
type StatusUpdateResponse struct {
	Application *models.Application `json:"application"`
	Warning     string              `json:"warning,omitempty"`
}

// ApplicantUser - данные кандидата для администратора
type ApplicantUser struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

type ApplicantView struct {
	ID          string                   `json:"id"`
	JobID       string                   `json:"job"`
	User        ApplicantUser            `json:"user"`
	Resume      string                   `json:"resume"`
	CoverLetter string                   `json:"coverLetter,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
}

type ApplicantsResponse struct {
	JobTitle     string          `json:"jobTitle"`
	Applications []ApplicantView `json:"applications"`
}

// Цвета этапов таймлайна
const (
	StageGreen  = "green"
	StageYellow = "yellow"
	StageGray   = "gray"
	StageRed    = "red"
)

type TimelineStage struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ApplicationView - отклик с вакансией и таймлайном; Job == nil, если вакансия удалена
type ApplicationView struct {
	ID          string                   `json:"id"`
	Job         *models.Job              `json:"job"`
	UserID      string                   `json:"user"`
	Resume      string                   `json:"resume"`
	CoverLetter string                   `json:"coverLetter,omitempty"`
	Status      models.ApplicationStatus `json:"status"`
	Timeline    []TimelineStage          `json:"timeline"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

type DashboardResponse struct {
	Saved   []models.Job      `json:"saved"`
	Applied []ApplicationView `json:"applied"`
}
