package validator

import "reflect"

// Structural is the default Verifier. A candidate satisfies
//   - an interface when it or a pointer to it implements the interface,
//   - a struct when it has every field of the struct with an assignable type,
//   - a func type when its parameters accept and its results fit the func's.
type Structural struct{}

func (Structural) Satisfies(candidate, contract reflect.Type) bool {
	if candidate == nil || contract == nil {
		return false
	}
	switch contract.Kind() {
	case reflect.Interface:
		return candidate.Implements(contract) ||
			(candidate.Kind() != reflect.Pointer && reflect.PointerTo(candidate).Implements(contract))
	case reflect.Struct:
		return hasFields(candidate, contract)
	case reflect.Func:
		return fitsFunc(candidate, contract)
	}
	return false
}

func hasFields(candidate, contract reflect.Type) bool {
	if candidate.Kind() == reflect.Pointer {
		candidate = candidate.Elem()
	}
	if candidate.Kind() != reflect.Struct {
		return false
	}
	for i := 0; i < contract.NumField(); i++ {
		want := contract.Field(i)
		if !want.IsExported() {
			continue
		}
		got, ok := candidate.FieldByName(want.Name)
		if !ok || !got.Type.AssignableTo(want.Type) {
			return false
		}
	}
	return true
}

func fitsFunc(candidate, contract reflect.Type) bool {
	if candidate.Kind() != reflect.Func ||
		candidate.NumIn() != contract.NumIn() ||
		candidate.NumOut() != contract.NumOut() ||
		candidate.IsVariadic() != contract.IsVariadic() {
		return false
	}
	for i := 0; i < contract.NumIn(); i++ {
		if !contract.In(i).AssignableTo(candidate.In(i)) {
			return false
		}
	}
	for i := 0; i < contract.NumOut(); i++ {
		if !candidate.Out(i).AssignableTo(contract.Out(i)) {
			return false
		}
	}
	return true
}
