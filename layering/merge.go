// Package layering deep-copies and merges loosely typed payloads such as scope
// buckets and event fields. Layers are always ordered strongest first.
package layering

import "reflect"

// Clone returns a deep copy of value. Maps, slices and pointers are detached
// from the original so callers can mutate the result freely. Shared and
// self-referencing values keep their shape in the copy.
func Clone[T any](value T) T {
	var zero T
	cloned := newWalker().clone(reflect.ValueOf(value))
	if !cloned.IsValid() {
		return zero
	}
	result, ok := cloned.Interface().(T)
	if !ok {
		return zero
	}
	return result
}

// MergeMaps shallow-merges patch into base and returns a new map. Keys in
// patch replace keys in base; nested values are not inspected.
func MergeMaps(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range patch {
		out[key] = value
	}
	return out
}

// MergeLayers composes bucket layers ordered from strongest to weakest. A key
// present in a stronger layer wins even when its value is nil. Nested
// map[string]any values merge key by key; anything else is copied whole from
// the strongest layer holding the key. The result shares no memory with the
// inputs.
func MergeLayers(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return nil
	}
	w := newWalker()
	var merged map[string]any
	for i := len(layers) - 1; i >= 0; i-- {
		merged = w.overlay(merged, layers[i])
	}
	return merged
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// walker carries the copies made so far, keyed by source address, so cyclic
// payloads terminate.
type walker struct {
	seen     map[visit]reflect.Value
	overlays map[uintptr]bool
}

func newWalker() *walker {
	return &walker{
		seen:     map[visit]reflect.Value{},
		overlays: map[uintptr]bool{},
	}
}

func (w *walker) overlay(dst, src map[string]any) map[string]any {
	if src == nil {
		return dst
	}
	if dst == nil {
		return w.cloneBucket(src)
	}
	addr := reflect.ValueOf(src).Pointer()
	if w.overlays[addr] {
		return w.cloneBucket(src)
	}
	w.overlays[addr] = true
	defer delete(w.overlays, addr)

	for key, value := range src {
		nested, isBucket := value.(map[string]any)
		current, hasBucket := dst[key].(map[string]any)
		if isBucket && hasBucket && nested != nil && current != nil {
			dst[key] = w.overlay(current, nested)
			continue
		}
		dst[key] = w.cloneAny(value)
	}
	return dst
}

func (w *walker) cloneBucket(bucket map[string]any) map[string]any {
	out, _ := w.clone(reflect.ValueOf(bucket)).Interface().(map[string]any)
	return out
}

func (w *walker) cloneAny(value any) any {
	if value == nil {
		return nil
	}
	return w.clone(reflect.ValueOf(value)).Interface()
}

func (w *walker) clone(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := w.seen[key]; ok {
			return done
		}
		out := reflect.New(v.Type().Elem())
		w.seen[key] = out
		out.Elem().Set(w.clone(v.Elem()))
		return out
	case reflect.Map:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{ptr: v.Pointer(), typ: v.Type()}
		if done, ok := w.seen[key]; ok {
			return done
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		w.seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), w.clone(iter.Value()))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		key := visit{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if done, ok := w.seen[key]; ok {
			return done
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		w.seen[key] = out
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(w.clone(v.Index(i)))
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(w.clone(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		if !exported(v.Type()) {
			// time.Time and friends keep their state in unexported fields.
			out.Set(v)
			return out
		}
		for i := 0; i < v.NumField(); i++ {
			out.Field(i).Set(w.clone(v.Field(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(w.clone(v.Index(i)))
		}
		return out
	default:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		return out
	}
}

func exported(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return false
		}
	}
	return true
}
