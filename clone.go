package dynabuild

import (
	"fmt"
	"reflect"
	"regexp"
	"time"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf((*regexp.Regexp)(nil))
)

// DeepClone returns a copy of v that is structurally equal to it but shares
// no mutable container (map, slice, array, struct, pointer, pattern) with the
// original. Scalars and other immutable values are returned as-is. Times are
// copied by value; compiled patterns are recompiled so the copy has its own
// identity.
//
// The value graph must be data-only: a reachable function (or channel) value
// fails with a *CloneError locating the offending value.
//
// Unexported struct fields are carried over by whole-value copy and are not
// recursed into.
func DeepClone(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := cloneValue(reflect.ValueOf(v), "$")
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

// MustDeepClone is like DeepClone but panics on error.
// Use only when the value graph is known to be data-only.
func MustDeepClone(v any) any {
	out, err := DeepClone(v)
	if err != nil {
		panic(err)
	}
	return out
}

func cloneValue(v reflect.Value, path string) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return v, nil

	case reflect.Func:
		return reflect.Value{}, &CloneError{Path: path, Message: "cannot clone function value"}

	case reflect.Chan, reflect.UnsafePointer:
		return reflect.Value{}, &CloneError{Path: path, Message: fmt.Sprintf("cannot clone %s value", v.Kind())}
	}

	// Times are effectively immutable; a value copy is enough.
	if v.Type() == timeType {
		return v, nil
	}

	// Compiled patterns get a fresh identity with the same source.
	if v.Type() == regexpType {
		if v.IsNil() {
			return v, nil
		}
		re := v.Interface().(*regexp.Regexp)
		copied, err := regexp.Compile(re.String())
		if err != nil {
			return reflect.Value{}, &CloneError{Path: path, Message: "cannot recompile pattern: " + err.Error()}
		}
		return reflect.ValueOf(copied), nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return v, nil
		}
		elem, err := cloneValue(v.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(elem)
		return out, nil

	case reflect.Pointer:
		if v.IsNil() {
			return v, nil
		}
		elem, err := cloneValue(v.Elem(), path)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(elem)
		return out, nil

	case reflect.Slice:
		if v.IsNil() {
			return v, nil
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			elem, err := cloneValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			elem, err := cloneValue(v.Index(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case reflect.Map:
		if v.IsNil() {
			return v, nil
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			entry := fmt.Sprintf("%s[%v]", path, iter.Key())
			key, err := cloneValue(iter.Key(), entry)
			if err != nil {
				return reflect.Value{}, err
			}
			val, err := cloneValue(iter.Value(), entry)
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(key, val)
		}
		return out, nil

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		// Whole-value copy first so unexported fields carry over.
		out.Set(v)
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !out.Field(i).CanSet() {
				continue
			}
			field, err := cloneValue(v.Field(i), path+"."+t.Field(i).Name)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(i).Set(field)
		}
		return out, nil

	default:
		return reflect.Value{}, &CloneError{Path: path, Message: fmt.Sprintf("cannot clone %s value", v.Kind())}
	}
}

// cloneRecord deep-clones a record, normalizing nil to an empty record.
func cloneRecord(data Record) (Record, error) {
	if data == nil {
		return Record{}, nil
	}
	out, err := DeepClone(data)
	if err != nil {
		return nil, err
	}
	return out.(Record), nil
}
