package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"

	"payaso-portal/internal/core/domain"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag  = "notblank"
	roleTag      = "role"
	eventTypeTag = "event_type"
)

func init() {
	Validate = validator.New()

	// Spanish messages, the volunteers' language
	_es := es.New()
	uni := ut.New(_es, _es)
	Translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(roleTag, roleValidation)
	_ = Validate.RegisterValidation(eventTypeTag, eventTypeValidation)

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, roleTag, eventTypeTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "este campo no puede estar vacío"
	case roleTag:
		return "rol inválido"
	case eventTypeTag:
		return "tipo de evento inválido"
	default:
		return fe.Error()
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// roleValidation accepts a single role code or a list of them
func roleValidation(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case string:
		_, ok := domain.ParseRole(v)
		return ok
	case []string:
		for _, s := range v {
			if _, ok := domain.ParseRole(s); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func eventTypeValidation(fl validator.FieldLevel) bool {
	switch domain.EventType(fl.Field().String()) {
	case domain.EventTraining, domain.EventVisit:
		return true
	}
	return false
}

// Struct validates s and converts failures into a domain.ValidationError
func Struct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Error: fe.Translate(Translator)})
	}
	return domain.NewValidationError(domain.ErrInvalidInput, fields...)
}
