package catalog

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/farmwise/farmwise/core"
)

var (
	categoryTag  = "category"
	categoryText = "invalid category"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)
}

// categoryValidation accepts a known category or the "all" wildcard.
func categoryValidation(fl validator.FieldLevel) bool {
	c := Category(fl.Field().String())
	return c.isWildcard() || c.IsValid()
}
