// Package validation implements the generic rule-based form checker used by
// every console form. A form is a plain struct; a Config pairs ordered field
// rules with optional cross-field validators and Validate produces a
// field-keyed error map.
package validation

// Result is the outcome of validating a form.
// IsValid is true exactly when Errors is empty.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// Rule binds a field name to a check over the whole form. Check returns an
// empty string when the field is valid.
type Rule[F any] struct {
	Field string
	Check func(F) string
}

// Config describes how to validate a form of type F.
type Config[F any] struct {
	Rules []Rule[F]
	// Cross validators inspect the whole form and may return errors keyed
	// by any field. Their results overwrite field-level errors (last wins).
	Cross []func(F) map[string]string
}

// Validate runs cfg against form. The first failing rule per field wins:
// once a field has an error, later rules for the same field are skipped.
func Validate[F any](form F, cfg Config[F]) Result {
	errs := make(map[string]string)

	for _, rule := range cfg.Rules {
		if _, failed := errs[rule.Field]; failed {
			continue
		}
		if msg := rule.Check(form); msg != "" {
			errs[rule.Field] = msg
		}
	}

	for _, cross := range cfg.Cross {
		for field, msg := range cross(form) {
			errs[field] = msg
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}
