package sanitizer

import "reflect"

// Describer lets a type publish its own field list instead of being inspected
// through reflection. This is the hook for computed or guarded properties.
//
// A string Field with a nil Set is read-only and is skipped. Any other Field
// Value is traversed; return pointers, maps or slices for nested values that
// should be encoded in place.
type Describer interface {
	DescribeFields() []Field
}

// Field is one named property published by a Describer.
type Field struct {
	Name  string
	Value any
	Set   func(string)
}

// describerOf returns the Describer implemented by v or, for addressable
// values, by its pointer.
func describerOf(v reflect.Value) (Describer, bool) {
	if v.CanAddr() {
		if p := v.Addr(); p.CanInterface() {
			if d, ok := p.Interface().(Describer); ok {
				return d, true
			}
		}
	}
	if v.CanInterface() {
		d, ok := v.Interface().(Describer)
		return d, ok
	}
	return nil, false
}
