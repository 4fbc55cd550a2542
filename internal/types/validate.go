//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// validate is shared by every request type; validator caches struct metadata per instance.
var validate = validator.New()

// ValidateStruct runs the package validator against any tagged struct.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
