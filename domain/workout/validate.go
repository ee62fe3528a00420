package workout

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"kcalcount/domain/core"
)

// validate is safe for concurrent use and caches parsed rules.
var validate = validator.New()

var genderRule = fmt.Sprintf("required,oneof=%s %s", Male, Female)

// Rule is the validator tag enforcing the bound's inclusive range.
func (b Bound) Rule() string {
	return fmt.Sprintf("min=%g,max=%g", b.Min, b.Max)
}

// Check validates v against the bound. NaN and infinities fail the range
// rule and are reported as non-finite.
func (b Bound) Check(v float64) error {
	err := validate.Var(v, b.Rule())
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", core.ErrInvalidInput, b.Field, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s", core.ErrNotFinite, b.Field)
	}
	return core.NewRangeError(b.Field, v, b.Min, b.Max)
}
