package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("user_role", validateUserRole)
	_ = validate.RegisterValidation("vehicle_type", validateVehicleType)
	_ = validate.RegisterValidation("cargo_type", validateCargoType)
	_ = validate.RegisterValidation("phone", validatePhone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "msme", "driver", "warehouse":
		return true
	}
	return false
}

func validateVehicleType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "2-wheeler", "tempo", "truck":
		return true
	}
	return false
}

func validateCargoType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "electronics", "textiles", "automotive", "food", "chemicals", "general":
		return true
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[+]?[1-9]\d{9,14}$`)
	return re.MatchString(fl.Field().String())
}
