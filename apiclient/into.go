package apiclient

import (
	"fmt"
	"reflect"
)

// Into marks a parameter that accepts any value convertible into T.
// Generated facade methods take Into[T] and call Convert[T] on it.
//
// Into[T] is an empty interface, so the compiler accepts any argument; T only
// documents the target. Convert is the contract: an argument it rejects fails
// the call with KindInvalidArgument before a request is built.
type Into[T any] interface{}

// Convert returns v as a T. It accepts a T, a value with an Into() T method,
// or a value whose type has the same kind as T and converts to it
// (e.g. a named string type into string). An untyped nil becomes the zero
// value when T is a pointer, slice, map or interface.
func Convert[T any](v any) (T, error) {
	var zero T
	switch x := v.(type) {
	case T:
		return x, nil
	case interface{ Into() T }:
		return x.Into(), nil
	}

	to := reflect.TypeFor[T]()
	if v == nil {
		switch to.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return zero, nil
		}
		return zero, &BaseError{Kind: KindInvalidArgument, Err: fmt.Errorf("cannot convert nil into %s", to)}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == to.Kind() && rv.Type().ConvertibleTo(to) {
		return rv.Convert(to).Interface().(T), nil
	}
	return zero, &BaseError{Kind: KindInvalidArgument, Err: fmt.Errorf("cannot convert %T into %s", v, to)}
}
