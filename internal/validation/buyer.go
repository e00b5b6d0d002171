// Package validation is the constraint engine for buyer records: per-field
// rules, cross-field invariants, and normalization from loose input to a
// well-formed record. Pure — no I/O, deterministic, never panics. The single
// create path, the update path, and every CSV import row all go through
// ValidateBuyer, so there is exactly one definition of "valid buyer".
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"leadhub/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var phoneRe = regexp.MustCompile(`^[0-9]{10,15}$`)

func init() {
	// Report errors under the JSON field name (fullName, budgetMax, ...) so
	// clients can map them straight onto form fields.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	// enum=<set> resolves membership against the canonical sets in the model
	// package, so validation can never drift from what storage and the CSV
	// format accept.
	validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		return model.InEnum(fl.Param(), fl.Field().String())
	})
}

// BuyerInput is the loose candidate shape accepted from forms, the update
// endpoint, and import rows. Pointer fields model explicit absence.
type BuyerInput struct {
	FullName     string   `json:"fullName" validate:"required,min=2,max=80"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Phone        string   `json:"phone" validate:"required,phone"`
	City         string   `json:"city" validate:"required,enum=city"`
	PropertyType string   `json:"propertyType" validate:"required,enum=property_type"`
	BHK          *string  `json:"bhk" validate:"omitempty,enum=bhk"`
	Purpose      string   `json:"purpose" validate:"required,enum=purpose"`
	BudgetMin    *int     `json:"budgetMin" validate:"omitempty,gt=0"`
	BudgetMax    *int     `json:"budgetMax" validate:"omitempty,gt=0"`
	Timeline     string   `json:"timeline" validate:"required,enum=timeline"`
	Source       string   `json:"source" validate:"required,enum=source"`
	Notes        *string  `json:"notes" validate:"omitempty,max=1000"`
	Tags         []string `json:"tags"`
	Status       *string  `json:"status" validate:"omitempty,enum=status"`
}

// FieldErrors maps a field name to one or more human-readable messages.
// All failures are collected in a single pass — never short-circuited — so a
// form can surface every problem at once.
type FieldErrors map[string][]string

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e FieldErrors) has(field string) bool {
	_, ok := e[field]
	return ok
}

// ValidateBuyer checks a candidate against all field rules and the two
// cross-field invariants, returning either a normalized copy or the collected
// field-scoped errors (never both). Normalization: empty email becomes absent,
// absent tags become an empty slice. Idempotent — re-validating a previously
// returned value yields an identical result.
func ValidateBuyer(in BuyerInput) (BuyerInput, FieldErrors) {
	out := in

	// Empty optional strings mean "not provided".
	if out.Email != nil && strings.TrimSpace(*out.Email) == "" {
		out.Email = nil
	}
	if out.Notes != nil && *out.Notes == "" {
		out.Notes = nil
	}

	errs := FieldErrors{}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs.add(fe.Field(), message(fe))
			}
		}
	}

	// Cross-field invariants run only when the fields they reference passed
	// their individual checks, so a bad budget never produces two errors for
	// the same root cause.
	if out.BudgetMin != nil && out.BudgetMax != nil &&
		!errs.has("budgetMin") && !errs.has("budgetMax") &&
		*out.BudgetMin > *out.BudgetMax {
		errs.add("budgetMax", "Minimum budget must be less than or equal to maximum budget")
	}

	if (out.PropertyType == model.PropertyApartment || out.PropertyType == model.PropertyVilla) &&
		!errs.has("propertyType") && !errs.has("bhk") && out.BHK == nil {
		errs.add("bhk", "BHK is required for Apartment or Villa")
	}

	if len(errs) > 0 {
		return BuyerInput{}, errs
	}

	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out, nil
}

// message turns a validator error into the human-readable text the API
// contract promises.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "email":
		return "Invalid email"
	case "phone":
		return "Phone must be 10-15 digits"
	case "gt":
		return "Must be a positive number"
	case "enum":
		return "Must be one of: " + strings.Join(model.EnumValues(fe.Param()), ", ")
	default:
		return "Invalid value"
	}
}
