// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует доменные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("inventory_role", isValidRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("request_priority", isValidPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("maintenance_type", isValidMaintenanceType); err != nil {
		return err
	}
	if err := v.RegisterValidation("equipment_condition", isValidCondition); err != nil {
		return err
	}
	if err := v.RegisterValidation("serial_number", isSerialNumber); err != nil {
		return err
	}
	return nil
}

func isValidRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "user", "team_lead", "admin":
		return true
	}
	return false
}

func isValidPriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high", "urgent":
		return true
	}
	return false
}

func isValidMaintenanceType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "preventive", "corrective", "emergency", "upgrade", "inspection":
		return true
	}
	return false
}

func isValidCondition(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "excellent", "good", "fair", "poor", "damaged":
		return true
	}
	return false
}

// Серийные номера у нас: латиница/цифры/дефис, от 3 до 64 символов.
func isSerialNumber(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[A-Za-z0-9\-]{3,64}$`)
	return re.MatchString(fl.Field().String())
}
