package convention

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Field is a named value. Composites are flattened into a list of fields.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for Field{Name: name, Value: value}.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Loggable is implemented by types that list their own members.
// When present it is used instead of inspecting the type's fields.
//
//	func (u User) LogFields() []convention.Field {
//		return []convention.Field{
//			convention.F("Id", u.Id),
//			convention.F("Email", u.Email),
//		}
//	}
type Loggable interface {
	LogFields() []Field
}

type category uint8

const (
	categoryNull category = iota
	categoryPrimitive
	categoryCollection
	categoryComposite
)

var typeLoggable = reflect.TypeOf((*Loggable)(nil)).Elem()

// classify follows pointers and interfaces until it reaches something it can
// categorise. A Loggable stops the walk so pointer receivers keep working.
func classify(v any) (reflect.Value, category) {
	rv := reflect.ValueOf(v)
	for {
		if !rv.IsValid() {
			return rv, categoryNull
		}
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if rv.IsNil() {
				return reflect.Value{}, categoryNull
			}
		}
		if rv.Type().Implements(typeLoggable) {
			return rv, categoryComposite
		}
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			break
		}
		rv = rv.Elem()
	}
	if kindOfValue(rv) != KindNone {
		return rv, categoryPrimitive
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, categoryCollection
	}
	return rv, categoryComposite
}

// indirect returns the value behind any pointers, or the zero Value for nil.
func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

// members lists the named members of a composite value.
func members(rv reflect.Value) []Field {
	if rv.Type().Implements(typeLoggable) {
		return rv.Interface().(Loggable).LogFields()
	}
	switch rv.Kind() {
	case reflect.Struct:
		return structFields(rv, nil)
	case reflect.Map:
		return mapFields(rv)
	default:
		return nil
	}
}

func structFields(rv reflect.Value, out []Field) []Field {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, tagged, skip := fieldName(sf)
		if skip {
			continue
		}
		fv := rv.Field(i).Interface()
		if sf.Anonymous && !tagged {
			ev, cat := classify(fv)
			if cat == categoryNull {
				continue
			}
			if cat == categoryComposite && (ev.Kind() == reflect.Struct || ev.Type().Implements(typeLoggable)) {
				out = append(out, members(ev)...)
				continue
			}
		}
		out = append(out, Field{Name: name, Value: fv})
	}
	return out
}

// fieldName reads the `log` struct tag: "-" skips the field, a name renames it.
func fieldName(sf reflect.StructField) (name string, tagged, skip bool) {
	tag, ok := sf.Tag.Lookup("log")
	if !ok {
		return sf.Name, false, false
	}
	if tag == "-" {
		return "", true, true
	}
	if idx := strings.IndexByte(tag, ','); idx != -1 {
		tag = tag[:idx]
	}
	if tag == "" {
		return sf.Name, false, false
	}
	return tag, true, false
}

func mapFields(rv reflect.Value) []Field {
	out := make([]Field, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, Field{
			Name:  fmt.Sprint(iter.Key().Interface()),
			Value: iter.Value().Interface(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
