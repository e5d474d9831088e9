package val

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const tagFolder = "folder"

// IsFolderPath reports whether s looks like "a" or "a/b/c": no leading or
// trailing slash and no empty segment.
func IsFolderPath(s string) bool {
	if s == "" {
		return false
	}
	for _, segment := range strings.Split(s, "/") {
		if strings.TrimSpace(segment) == "" {
			return false
		}
	}
	return true
}

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation(tagFolder, func(fl validator.FieldLevel) bool {
		return IsFolderPath(fl.Field().String())
	})
}
