package lead

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// emailRe is the basic local@domain.tld shape accepted by the lead form.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks leads against their struct tags plus the lead-specific
// rules lead_status, lead_category and lead_email.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator with the lead rules registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("lead_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("lead_category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("lead_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate returns a *ValidationError describing every failing field of l,
// or nil.
func (val *Validator) Validate(op string, l Lead) error {
	err := val.v.Struct(l)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Op: op, Fields: map[string]string{"lead": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Op: op, Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "lead_status":
		return "must be one of New, Contacted, Qualified, Closed"
	case "lead_category":
		return "must be a known category or Other"
	case "lead_email":
		return "must be a valid email address"
	case "gte", "lte":
		return "must be between 0 and 5"
	case "datetime":
		return "must be a date formatted YYYY-MM-DD"
	default:
		return "failed " + fe.Tag()
	}
}
