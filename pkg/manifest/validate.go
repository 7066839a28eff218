package manifest

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/CesiumGS/cesium-native/pkg/errors"
)

// manifestValidate checks manifest structs after decoding. Field names in
// reported errors use the yaml tag so they match what the user wrote.
var manifestValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// refpart: usable as the version, user, or channel part of a Conan reference.
	_ = v.RegisterValidation("refpart", func(fl validator.FieldLevel) bool {
		return errors.ValidateVersion(fl.Field().String()) == nil
	})

	// pkgname: usable as a package name and as a directory name.
	_ = v.RegisterValidation("pkgname", func(fl validator.FieldLevel) bool {
		return errors.ValidateLibraryName(fl.Field().String()) == nil
	})

	return v
}

// validateStruct runs struct-tag validation and reduces the first failure
// to a *errors.FieldError.
func validateStruct(s any) error {
	err := manifestValidate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return &errors.FieldError{Field: field, Rule: fe.Tag()}
}
