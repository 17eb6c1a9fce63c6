package models

type ApplicationStatus string
type JobType string

const (
	ApplicationStatusPending     ApplicationStatus = "Pending"
	ApplicationStatusShortlisted ApplicationStatus = "Shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "Rejected"
	ApplicationStatusWaitlisted  ApplicationStatus = "Waitlisted"

	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// ApplicationStatuses - все статусы в фиксированном порядке (статистика, валидация)
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusShortlisted,
	ApplicationStatusRejected,
	ApplicationStatusWaitlisted,
}

var JobTypes = []JobType{
	JobTypeFullTime,
	JobTypePartTime,
	JobTypeContract,
	JobTypeInternship,
}

func (s ApplicationStatus) IsValid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (t JobType) IsValid() bool {
	for _, v := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}
