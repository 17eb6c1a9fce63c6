package validator

import (
	"log"

	"jobhunt_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила в экземпляре валидатора
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// без правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// ➡️ Правила на основе statuses.go
	mustRegister("is-application-status", validateApplicationStatus)
	mustRegister("is-job-type", validateJobType)
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустое значение обрабатывает 'required'
	}
	return models.ApplicationStatus(value).IsValid()
}

func validateJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.JobType(value).IsValid()
}
