package contracts

import (
	"context"
	"fmt"
	"reflect"
	"sort"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// Method identifies one callable operation on a target or delegate.
//
// For a target method it is built from the target's reflect type; for an
// introduced method it is built from the capability interface that declares
// it. Identity is the method name: Go has no overloading, so the name alone
// is sufficient within one type.
type Method struct {
	// Name is the exported method name.
	Name string

	// Type is the method's function type, receiver excluded for introduced
	// methods and included for target methods.
	Type reflect.Type

	// Introduced reports whether the method comes from an introduction's
	// capability interface rather than the target's own type.
	Introduced bool

	// Interface is the capability interface declaring an introduced method;
	// nil for target methods.
	Interface reflect.Type
}

// String returns a human-readable method identity for logs and errors.
func (m *Method) String() string {
	if m.Interface != nil {
		return m.Interface.Name() + "." + m.Name
	}
	return m.Name
}

// WantsContext reports whether the underlying method accepts a
// context.Context as its first parameter. The engine injects the dispatch
// context into such methods.
func (m *Method) WantsContext() bool {
	t := m.Type
	offset := 0
	if !m.Introduced {
		offset = 1 // receiver
	}
	return t.NumIn() > offset && t.In(offset) == contextType
}

// Invoke calls the method on receiver with the given arguments, converting
// each argument to the declared parameter type. The dispatch context is
// injected when the method declares a leading context.Context parameter.
//
// Result mapping: a trailing error return becomes the failure outcome; zero
// remaining results map to nil, one maps to its value, and more map to an
// []any slice.
func (m *Method) Invoke(ctx context.Context, receiver any, args []any) (any, error) {
	fn := reflect.ValueOf(receiver).MethodByName(m.Name)
	if !fn.IsValid() {
		return nil, &MethodNotFoundError{Method: m.Name, Target: fmt.Sprintf("%T", receiver)}
	}

	ft := fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())
	next := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		in = append(in, reflect.ValueOf(ctx))
		next = 1
	}

	want := ft.NumIn() - next
	if ft.IsVariadic() {
		if len(args) < want-1 {
			return nil, fmt.Errorf("method %s expects at least %d arguments, got %d", m.Name, want-1, len(args))
		}
	} else if len(args) != want {
		return nil, fmt.Errorf("method %s expects %d arguments, got %d", m.Name, want, len(args))
	}

	for i, arg := range args {
		pi := next + i
		var pt reflect.Type
		if ft.IsVariadic() && pi >= ft.NumIn()-1 {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(pi)
		}
		v, err := conform(arg, pt)
		if err != nil {
			return nil, fmt.Errorf("method %s argument %d: %w", m.Name, i, err)
		}
		in = append(in, v)
	}

	return mapResults(fn.Call(in))
}

func conform(arg any, pt reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", pt)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if v.Type().ConvertibleTo(pt) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), pt)
}

func mapResults(out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && out[n-1].Type().Implements(errorType) {
		if e := out[n-1].Interface(); e != nil {
			err = e.(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	default:
		results := make([]any, len(out))
		for i, v := range out {
			results[i] = v.Interface()
		}
		return results, err
	}
}

// TypeInfo is the static snapshot of a target's declared method set, taken
// once at proxy construction time. Matching never consults the live target
// after the snapshot; runtime subtype refinements are invisible to it.
type TypeInfo struct {
	// Type is the target's concrete type as presented to the factory.
	Type reflect.Type

	methods map[string]*Method
	names   []string
}

// NewTypeInfo snapshots the exported method set of target.
func NewTypeInfo(target any) (*TypeInfo, error) {
	if target == nil {
		return nil, &ConfigError{Op: "snapshot", Reason: "target cannot be nil"}
	}
	t := reflect.TypeOf(target)
	info := &TypeInfo{
		Type:    t,
		methods: make(map[string]*Method, t.NumMethod()),
	}
	for i := 0; i < t.NumMethod(); i++ {
		rm := t.Method(i)
		if !rm.IsExported() {
			continue
		}
		info.methods[rm.Name] = &Method{
			Name: rm.Name,
			Type: rm.Type,
		}
		info.names = append(info.names, rm.Name)
	}
	sort.Strings(info.names)
	return info, nil
}

// Method returns the declared method with the given name, or nil.
func (t *TypeInfo) Method(name string) *Method {
	return t.methods[name]
}

// MethodNames returns the declared method names in sorted order.
func (t *TypeInfo) MethodNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Name returns the target type's name, dereferencing a pointer type.
func (t *TypeInfo) Name() string {
	tt := t.Type
	if tt.Kind() == reflect.Ptr {
		tt = tt.Elem()
	}
	return tt.Name()
}

// InterfaceMethods expands an interface type into Method descriptors for an
// introduction's capability table.
func InterfaceMethods(iface reflect.Type) ([]*Method, error) {
	if iface == nil || iface.Kind() != reflect.Interface {
		return nil, &ConfigError{Op: "introduce", Reason: fmt.Sprintf("%v is not an interface type", iface)}
	}
	methods := make([]*Method, 0, iface.NumMethod())
	for i := 0; i < iface.NumMethod(); i++ {
		im := iface.Method(i)
		methods = append(methods, &Method{
			Name:       im.Name,
			Type:       im.Type,
			Introduced: true,
			Interface:  iface,
		})
	}
	return methods, nil
}
