package dto

type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Company      string   `json:"company" validate:"required,max=200"`
	Location     string   `json:"location" validate:"required,max=200"`
	Type         string   `json:"type" validate:"required,is-job-type"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements" validate:"omitempty,dive,max=500"`
	Salary       string   `json:"salary" validate:"omitempty,max=100"`
}

// JobListQuery - фильтры и пагинация GET /jobs
type JobListQuery struct {
	Query    string
	Type     string
	Location string
	Page     int
	PageSize int
}
