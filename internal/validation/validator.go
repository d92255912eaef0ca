package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"quiz-forge/internal/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// Validator checks request DTOs and reports failures as domain.ValidationErrors
type Validator struct {
	validate *govalidator.Validate
	trans    ut.Translator
}

// NewValidator creates a validator that names fields by their json tag
func NewValidator() *Validator {
	v := govalidator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Struct validates s. It returns nil when s is valid.
func (v *Validator) Struct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs govalidator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{{
			Field:   "body",
			Code:    domain.CodeValidation,
			Message: err.Error(),
		}}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.ValidationError{
			Field:   fieldPath(fe),
			Code:    codeForTag(fe.Tag()),
			Message: fe.Translate(v.trans),
			Value:   fe.Value(),
		})
	}
	return out
}

// ValidateBankID checks a bank identifier path parameter
func (v *Validator) ValidateBankID(id string) domain.ValidationErrors {
	if strings.TrimSpace(id) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("bank_id")}
	}
	if !IsValidULID(id) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("bank_id", id)}
	}
	return nil
}

// ValidatePage checks list pagination parameters
func (v *Validator) ValidatePage(limit, offset int) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if limit < 1 || limit > 100 {
		errs = append(errs, domain.NewOutOfRangeError("limit", limit, 1, 100))
	}
	if offset < 0 {
		errs = append(errs, domain.NewOutOfRangeError("offset", offset, 0, 1<<31-1))
	}
	return errs
}

// IsValidULID reports whether s is a canonical ULID string
func IsValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func codeForTag(tag string) domain.ErrorCode {
	switch tag {
	case "required":
		return domain.CodeMissingField
	case "min", "max", "gte", "lte", "gt", "lt", "len":
		return domain.CodeOutOfRange
	default:
		return domain.CodeInvalidFormat
	}
}
