// Package nilcheck detects nil values hidden behind interfaces.
package nilcheck

import "reflect"

// Interface reports whether value is nil, including a typed nil stored in an interface.
func Interface(value any) bool {
	if value == nil {
		return true
	}

	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}

	return false
}
