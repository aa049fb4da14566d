package models

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// IsEmptyMessage reports whether x carries no information: nil, an empty
// string, or a record whose canonical encoding matches a freshly
// constructed value of the same type.
func IsEmptyMessage(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
		v = v.Elem()
		if v.Kind() == reflect.String {
			return v.Len() == 0
		}
	}
	fresh := reflect.New(v.Type())
	return bytes.Equal(canonical(v.Interface()), canonical(fresh.Elem().Interface()))
}

// Equal reports whether a and b have the same canonical encoding.
func Equal(a, b any) bool {
	return bytes.Equal(canonical(a), canonical(b))
}

func canonical(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// SetString assigns s to *dst, leaving *dst nil when s is empty.
func SetString(dst **string, s string) {
	if s == "" {
		*dst = nil
		return
	}
	*dst = &s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
