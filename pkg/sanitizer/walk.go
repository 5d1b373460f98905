package sanitizer

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"unsafe"
)

// identity distinguishes graph nodes by address rather than by value.
// Slices sharing a backing array but differing in length are distinct nodes.
// Addresses are held as unsafe.Pointer so that temporaries recorded here stay
// alive for the whole walk and their memory is never reused by a later one.
type identity struct {
	ptr unsafe.Pointer
	typ reflect.Type
	len int
}

// walker carries the state of one traversal. It is never shared.
type walker struct {
	s       *Sanitizer
	visited map[identity]struct{}
	// slots holds addresses of strings already rewritten, so a string reachable
	// both inline and through a pointer to it is encoded once.
	slots  map[unsafe.Pointer]struct{}
	report Report
}

func newWalker(s *Sanitizer) *walker {
	return &walker{
		s:       s,
		visited: make(map[identity]struct{}),
		slots:   make(map[unsafe.Pointer]struct{}),
	}
}

// enter records a reference node and reports whether it is seen for the first time.
func (w *walker) enter(v reflect.Value) bool {
	id := identity{ptr: v.UnsafePointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		id.len = v.Len()
	}
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	w.report.Nodes++
	return true
}

// enterInline records an addressable struct stored inside another node and
// reports whether it is seen for the first time. It is used for Describers,
// whose writes bypass the string slot set.
func (w *walker) enterInline(v reflect.Value) bool {
	id := identity{ptr: v.Addr().UnsafePointer(), typ: v.Type()}
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	return true
}

func (w *walker) walk(v reflect.Value, depth int) {
	if !v.IsValid() {
		return
	}
	if depth > w.s.maxDepth {
		w.report.Truncated = true
		return
	}

	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			w.encode(v)
		}

	case reflect.Pointer:
		if v.IsNil() || !w.enter(v) {
			return
		}
		w.walk(v.Elem(), depth+1)

	case reflect.Interface:
		if v.IsNil() {
			return
		}
		w.walkInterface(v, depth)

	case reflect.Slice:
		if v.IsNil() || v.Len() == 0 || !w.enter(v) {
			return
		}
		w.walkSequence(v, depth)

	case reflect.Array:
		w.walkSequence(v, depth)

	case reflect.Map:
		if v.IsNil() || v.Len() == 0 || !w.enter(v) {
			return
		}
		w.walkMapping(v, depth)

	case reflect.Struct:
		if d, ok := describerOf(v); ok {
			if v.CanAddr() && !w.enterInline(v) {
				return
			}
			w.walkDescribed(d, depth)
			return
		}
		w.walkComposite(v, depth)
	}
}

func (w *walker) encode(v reflect.Value) {
	s := v.String()
	if s == "" {
		return
	}
	if v.CanAddr() {
		addr := v.Addr().UnsafePointer()
		if _, done := w.slots[addr]; done {
			return
		}
		w.slots[addr] = struct{}{}
	}
	v.SetString(w.s.encode(s))
	w.report.Encoded++
}

func (w *walker) walkSequence(v reflect.Value, depth int) {
	if isScalarKind(v.Type().Elem().Kind()) {
		return
	}
	for i := range v.Len() {
		w.walk(v.Index(i), depth+1)
	}
}

// walkMapping visits map values in key order. Keys are never touched.
// Values are copied into addressable temporaries and stored back only when
// something inside them was rewritten.
func (w *walker) walkMapping(v reflect.Value, depth int) {
	keys := v.MapKeys()
	slices.SortStableFunc(keys, compareKeys)

	elemType := v.Type().Elem()
	for _, key := range keys {
		val := v.MapIndex(key)
		if !val.IsValid() {
			continue
		}

		tmp := reflect.New(elemType).Elem()
		tmp.Set(val)

		before := w.report.Encoded
		w.walk(tmp, depth+1)
		if w.report.Encoded != before && holdsValue(elemType) {
			v.SetMapIndex(key, tmp)
		}
	}
}

// walkInterface descends into the dynamic value. Value-typed contents of a
// settable interface are copied, walked and stored back.
func (w *walker) walkInterface(v reflect.Value, depth int) {
	elem := v.Elem()
	if !v.CanSet() || !holdsValue(elem.Type()) {
		w.walk(elem, depth+1)
		return
	}

	tmp := reflect.New(elem.Type()).Elem()
	tmp.Set(elem)

	before := w.report.Encoded
	w.walk(tmp, depth+1)
	if w.report.Encoded != before {
		v.Set(tmp)
	}
}

func (w *walker) walkComposite(v reflect.Value, depth int) {
	t := v.Type()
	for i := range v.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() && !(sf.Anonymous && sf.Type.Kind() == reflect.Struct) {
			continue
		}

		tag := sf.Tag.Get(w.s.tagKey)
		if tag == tagSkip {
			continue
		}

		field := v.Field(i)
		if isStringType(sf.Type) {
			if tag == tagReadOnly || !field.CanSet() {
				w.report.Skipped++
				continue
			}
		}
		w.walk(field, depth+1)
	}
}

func (w *walker) walkDescribed(d Describer, depth int) {
	for _, f := range d.DescribeFields() {
		if s, ok := f.Value.(string); ok {
			if f.Set == nil {
				w.report.Skipped++
				continue
			}
			if s != "" {
				f.Set(w.s.encode(s))
				w.report.Encoded++
			}
			continue
		}
		w.walk(reflect.ValueOf(f.Value), depth+1)
	}
}

// isStringType reports whether t is a string or a pointer to one.
func isStringType(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.String
}

// isScalarKind reports whether values of kind k can never lead to a string.
func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	}
	return false
}

// holdsValue reports whether values of t are copied on assignment and
// therefore need to be written back after a walk.
func holdsValue(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Struct, reflect.Array, reflect.Interface:
		return true
	}
	return false
}

// compareKeys orders map keys. Interface keys are ordered by dynamic type
// first, so 1 and "1" never compare equal.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a, b = a.Elem(), b.Elem()
		switch {
		case !a.IsValid() || !b.IsValid():
			return cmp.Compare(boolRank(a.IsValid()), boolRank(b.IsValid()))
		case a.Type() != b.Type():
			return cmp.Or(
				cmp.Compare(a.Type().PkgPath(), b.Type().PkgPath()),
				cmp.Compare(a.Type().String(), b.Type().String()),
			)
		}
	}

	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.Bool:
		return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return cmp.Compare(a.Pointer(), b.Pointer())
	}
	return cmp.Compare(fmt.Sprintf("%#v", a), fmt.Sprintf("%#v", b))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
