package workout

import (
	"fmt"
	"strings"

	"kcalcount/domain/core"
)

// Gender is the binary categorical feature the model was trained on.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Genders lists the accepted categories in selector order.
func Genders() []Gender {
	return []Gender{Male, Female}
}

// ParseGender accepts "male" or "female", ignoring case and surrounding space.
func ParseGender(s string) (Gender, error) {
	g := strings.ToLower(strings.TrimSpace(s))
	if err := validate.Var(g, genderRule); err != nil {
		return "", fmt.Errorf("%w: %q (want %q or %q)", core.ErrUnknownGender, s, Male, Female)
	}
	return Gender(g), nil
}

// Encode maps male to 1 and female to 0.
func (g Gender) Encode() (float64, error) {
	parsed, err := ParseGender(string(g))
	if err != nil {
		return 0, err
	}
	if parsed == Male {
		return 1, nil
	}
	return 0, nil
}

// Label is the display form used by the selector.
func (g Gender) Label() string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	default:
		return string(g)
	}
}
