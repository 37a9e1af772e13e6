package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers tag handling, English translations and the custom
// answer-letter rule on Gin's binding engine. Call once during startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(v, trans)

	registerAnsLetter(v)
}

// registerAnsLetter adds the "ansletter" rule used by submission
// payloads: exactly one letter A-F, either case.
func registerAnsLetter(v *govalidator.Validate) {
	v.RegisterValidation("ansletter", func(fl govalidator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 1 {
			return false
		}
		ch := s[0] | 0x20
		return ch >= 'a' && ch <= 'f'
	})
	v.RegisterTranslation("ansletter", trans,
		func(t ut.Translator) error {
			return t.Add("ansletter", "{0} must be a single answer letter A-F", true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, _ := t.T("ansletter", fe.Field())
			return msg
		},
	)
}

// Bind decodes and validates the JSON request body into dst. It returns
// nil on success or a field error map ready for the response envelope.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery does the same for query parameters.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// TranslateErrors flattens a binding error into field name to message.
// Errors that are not validation errors, like JSON syntax problems,
// come back under the single key "detail".
func TranslateErrors(err error) map[string]string {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"detail": err.Error()}
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Translate(trans)
	}
	return fields
}
