package app

import (
	"regexp"
	"strings"

	"github.com/dwikikusuma/storefront/internal/checkout/domain"
)

const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldNotes   = "notes"
)

const (
	reasonRequired = "This field is required"
	reasonPhone    = "Please enter a valid phone number"
)

// Optional leading +, then at least ten digits, spaces, hyphens or
// parentheses.
var phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)

// Validator tracks per-field state: untouched until evaluated, then valid
// or invalid with a reason. A keystroke on an invalid field resets it to
// untouched pending re-validation on the next blur.
type Validator struct {
	results map[string]domain.FieldResult
}

func NewValidator() *Validator {
	return &Validator{results: make(map[string]domain.FieldResult)}
}

// Blur evaluates a field when it loses focus.
func (v *Validator) Blur(field, value string) domain.FieldResult {
	res := evaluate(field, value)
	v.results[field] = res
	return res
}

// Input clears a previously invalid field back to untouched. Valid fields
// keep their state.
func (v *Validator) Input(field string) {
	if res, ok := v.results[field]; ok && res.State == domain.FieldInvalid {
		v.results[field] = domain.FieldResult{Field: field, State: domain.FieldUntouched}
	}
}

// Field reports the current state of a field.
func (v *Validator) Field(field string) domain.FieldResult {
	if res, ok := v.results[field]; ok {
		return res
	}
	return domain.FieldResult{Field: field, State: domain.FieldUntouched}
}

// Reset discards all field state, used when the checkout form is dismissed.
func (v *Validator) Reset() {
	v.results = make(map[string]domain.FieldResult)
}

// ValidateForm evaluates every required field without short-circuiting so
// the caller can surface all problems at once.
func (v *Validator) ValidateForm(c domain.CustomerInfo) ([]domain.FieldResult, bool) {
	values := []struct {
		field string
		value string
	}{
		{FieldName, c.Name},
		{FieldPhone, c.Phone},
		{FieldAddress, c.Address},
	}

	results := make([]domain.FieldResult, 0, len(values))
	ok := true
	for _, fv := range values {
		res := v.Blur(fv.field, fv.value)
		if res.State == domain.FieldInvalid {
			ok = false
		}
		results = append(results, res)
	}
	return results, ok
}

func evaluate(field, value string) domain.FieldResult {
	if strings.TrimSpace(value) == "" {
		return domain.FieldResult{Field: field, State: domain.FieldInvalid, Reason: reasonRequired}
	}
	if field == FieldPhone && !phonePattern.MatchString(value) {
		return domain.FieldResult{Field: field, State: domain.FieldInvalid, Reason: reasonPhone}
	}
	return domain.FieldResult{Field: field, State: domain.FieldValid}
}
