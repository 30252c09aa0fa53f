package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/nkiryanov/gestiondocente/internal/models"
)

func configureValidator(validate *validator.Validate) {
	// Decimals are validated by their string form, local times as time.Time
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterCustomTypeFunc(localTimeValue, models.LocalTime{})

	_ = validate.RegisterValidation("grade", validateGrade)
	_ = validate.RegisterValidation("status", validateRequestStatus)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

// Return on 'TagName' json tag instead of struct name
// Look at documentation of 'RegisterTagNameFunc' for more details
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func localTimeValue(field reflect.Value) any {
	if t, ok := field.Interface().(models.LocalTime); ok {
		return t.Time
	}
	return nil
}

// Grade within 0..20 scale
func validateGrade(fl validator.FieldLevel) bool {
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return models.ValidGrade(value)
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	return models.RequestStatus(fl.Field().String()).Valid()
}
