package config

import (
	"reflect"
)

// DeepMerge overlays src onto dst. Both must be pointers to the same type.
// Non-zero scalars in src win, non-empty slices replace, maps merge per key
// and pointers merge through to their targets.
func DeepMerge(dst, src any) {
	dstVal := reflect.ValueOf(dst)
	srcVal := reflect.ValueOf(src)

	if dstVal.Kind() != reflect.Ptr || srcVal.Kind() != reflect.Ptr {
		return
	}
	if dstVal.IsNil() || srcVal.IsNil() || dstVal.Type() != srcVal.Type() {
		return
	}

	mergeValues(dstVal.Elem(), srcVal.Elem())
}

func mergeValues(dst, src reflect.Value) {
	if !dst.CanSet() || !src.IsValid() {
		return
	}

	switch dst.Kind() {
	case reflect.Struct:
		mergeStruct(dst, src)
	case reflect.Map:
		mergeMap(dst, src)
	case reflect.Slice:
		mergeSlice(dst, src)
	case reflect.Ptr:
		mergePointer(dst, src)
	default:
		mergeScalar(dst, src)
	}
}

func mergeStruct(dst, src reflect.Value) {
	for i := 0; i < dst.NumField(); i++ {
		mergeValues(dst.Field(i), src.Field(i))
	}
}

// mergePointer never writes through dst's target, which may be shared with
// an earlier snapshot.
func mergePointer(dst, src reflect.Value) {
	if src.IsNil() {
		return
	}
	if dst.IsNil() || dst.Elem().Kind() != reflect.Struct {
		dst.Set(src)
		return
	}

	merged := reflect.New(dst.Elem().Type())
	merged.Elem().Set(dst.Elem())
	mergeValues(merged.Elem(), src.Elem())
	dst.Set(merged)
}

func mergeMap(dst, src reflect.Value) {
	if src.IsNil() {
		return
	}

	merged := reflect.MakeMapWithSize(dst.Type(), dst.Len()+src.Len())
	if !dst.IsNil() {
		iter := dst.MapRange()
		for iter.Next() {
			merged.SetMapIndex(iter.Key(), iter.Value())
		}
	}

	iter := src.MapRange()
	for iter.Next() {
		key, srcVal := iter.Key(), iter.Value()
		dstVal := merged.MapIndex(key)
		if !dstVal.IsValid() {
			merged.SetMapIndex(key, srcVal)
			continue
		}

		next := reflect.New(dstVal.Type()).Elem()
		next.Set(dstVal)
		mergeValues(next, srcVal)
		merged.SetMapIndex(key, next)
	}
	dst.Set(merged)
}

func mergeSlice(dst, src reflect.Value) {
	if src.Len() > 0 {
		dst.Set(src)
	}
}

func mergeScalar(dst, src reflect.Value) {
	if !src.IsZero() {
		dst.Set(src)
	}
}
