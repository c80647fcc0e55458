package payments

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// ErrNotPointer is returned by SetConfigFromEnvVars when s is not a pointer to a struct.
var ErrNotPointer = errors.New("config target must be a non-nil pointer to a struct")

// SetConfigFromEnvVars fills the fields of the struct pointed to by s from the
// environment variables named in their `env` tags. String, bool and integer
// fields are supported. Unset variables leave the field untouched.
//
//	type Config struct {
//		Workers int `env:"PAYMENTS_WORKERS"`
//	}
func SetConfigFromEnvVars(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}

	elem := v.Elem()
	t := elem.Type()

	for i := range t.NumField() {
		key, ok := t.Field(i).Tag.Lookup("env")
		if !ok || key == "" {
			continue
		}

		raw, present := os.LookupEnv(key)
		raw = strings.TrimSpace(raw)

		if !present || raw == "" {
			continue
		}

		field := elem.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}

			field.SetBool(b)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}

			field.SetInt(n)
		default:
			return fmt.Errorf("env %s: unsupported field kind %s", key, field.Kind())
		}
	}

	return nil
}
