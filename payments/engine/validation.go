package engine

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/LerianStudio/payments-engine/payments/log"
	"github.com/LerianStudio/payments-engine/payments/opentelemetry"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned for any setting rejected by Validate that has
// no more specific sentinel.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	configValidator     *validator.Validate
	configValidatorOnce sync.Once
	errConfigValidator  error
)

// getValidator returns the shared validator. Field errors are named after
// the environment variable of the field, so messages point at what to fix.
func getValidator() (*validator.Validate, error) {
	configValidatorOnce.Do(func() {
		vld := validator.New(validator.WithRequiredStructEnabled())

		vld.RegisterTagNameFunc(func(field reflect.StructField) string {
			if name := field.Tag.Get("env"); name != "" {
				return name
			}

			return field.Name
		})

		if err := vld.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, err := log.ParseLevel(fl.Field().String())
			return err == nil
		}); err != nil {
			errConfigValidator = fmt.Errorf("register 'log_level': %w", err)
			return
		}

		configValidator = vld
	})

	return configValidator, errConfigValidator
}

// fieldErrors maps a struct field to the sentinel its failures wrap.
var fieldErrors = map[string]error{
	"Workers":           ErrInvalidWorkers,
	"CollectorEndpoint": opentelemetry.ErrMissingEndpoint,
}

func formatFieldError(fe validator.FieldError) error {
	sentinel, ok := fieldErrors[fe.StructField()]
	if !ok {
		sentinel = ErrInvalidConfig
	}

	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s: %w: %q is not one of [%s]", fe.Field(), sentinel, fe.Value(), fe.Param())
	case "required", "required_if":
		return fmt.Errorf("%s: %w: value is required", fe.Field(), sentinel)
	default:
		return fmt.Errorf("%s: %w: got %v", fe.Field(), sentinel, fe.Value())
	}
}

func validateConfig(c Config) error {
	vld, err := getValidator()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := vld.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return formatFieldError(fieldErrs[0])
		}

		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
