package typeref

import "reflect"

// IsSubtype reports whether t can stand in for target: identical,
// assignable, implementing target when target is an interface, or embedding
// target (directly, by pointer, or through further embedded structs).
func IsSubtype(t, target reflect.Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t == target || t.AssignableTo(target) {
		return true
	}
	if target.Kind() == reflect.Interface && t.Implements(target) {
		return true
	}
	return embeds(t, target, make(map[reflect.Type]bool))
}

// embeds walks anonymous struct fields of t looking for target.
// For a pointer target the walk starts from the pointer's element on both sides.
func embeds(t, target reflect.Type, seen map[reflect.Type]bool) bool {
	if target.Kind() == reflect.Pointer {
		if t.Kind() != reflect.Pointer {
			return false
		}
		t, target = t.Elem(), target.Elem()
	} else if t.Kind() == reflect.Pointer {
		// *Circle is not a Point value.
		return false
	}
	if t.Kind() != reflect.Struct || seen[t] {
		return false
	}
	seen[t] = true

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft == target {
			return true
		}
		if target.Kind() == reflect.Interface && ft.Implements(target) {
			return true
		}
		if embeds(ft, target, seen) {
			return true
		}
	}
	return false
}
