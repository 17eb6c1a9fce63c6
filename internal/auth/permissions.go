package auth

import "jobhunt_backend/pkg/apperrors"

// Role - закрытый набор ролей
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// Action - защищенная операция API
type Action string

const (
	ActionViewProfile     Action = "profile:read"
	ActionEditProfile     Action = "profile:write"
	ActionSaveJob         Action = "jobs:save"
	ActionApply           Action = "applications:create"
	ActionViewDashboard   Action = "dashboard:read"
	ActionManageJobs      Action = "jobs:manage"
	ActionViewApplicants  Action = "applications:list"
	ActionUpdateStatus    Action = "applications:status"
	ActionViewStats       Action = "stats:read"
	ActionViewApplication Action = "applications:read"
	ActionReadResume      Action = "resumes:read"
)

var permissions = map[Role]map[Action]bool{
	RoleUser: {
		ActionViewProfile:     true,
		ActionEditProfile:     true,
		ActionSaveJob:         true,
		ActionApply:           true,
		ActionViewDashboard:   true,
		ActionViewApplication: true,
		ActionReadResume:      true,
	},
	RoleAdmin: {
		ActionManageJobs:      true,
		ActionViewApplicants:  true,
		ActionUpdateStatus:    true,
		ActionViewStats:       true,
		ActionViewApplication: true,
		ActionReadResume:      true,
	},
}

// Authorize - единственная точка решения о доступе роли к операции.
// Владение конкретной записью проверяется отдельно в сервисах.
func Authorize(role Role, action Action) error {
	if !role.Valid() {
		return apperrors.NewUnauthorizedError("Invalid role")
	}
	if permissions[role][action] {
		return nil
	}
	if role == RoleUser {
		return apperrors.ErrAdminsOnly
	}
	return apperrors.ErrUsersOnly
}

func IsAdmin(role Role) bool {
	return role == RoleAdmin
}
