package convention

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Round-trip layouts, fixed 7 digit fraction so every instant has the same width.
	layoutDateTime = "2006-01-02T15:04:05.0000000"
	layoutTime     = "2006-01-02T15:04:05.0000000-07:00"
)

// Kind is the closed set of primitive-like value kinds.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindBool
	KindInt
	KindUint
	KindFloat
	KindComplex
	KindEnum
	KindDateTime
	KindTime
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindEnum:
		return "enum"
	case KindDateTime:
		return "datetime"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	default:
		return "none"
	}
}

// DateTime is a wall-clock date and time without an offset.
// It renders without zone information, use time.Time when the offset matters.
type DateTime struct {
	time.Time
}

// NewDateTime drops the location of t, keeping its wall clock.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)}
}

var (
	typeTime     = reflect.TypeOf(time.Time{})
	typeDateTime = reflect.TypeOf(DateTime{})
	typeUUID     = reflect.TypeOf(uuid.UUID{})
	typeStringer = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// KindOf classifies v. Pointers are not followed, callers dereference first.
func KindOf(v any) Kind {
	if v == nil {
		return KindNone
	}
	return kindOfValue(reflect.ValueOf(v))
}

// IsPrimitiveLike reports whether v is rendered as a leaf.
func IsPrimitiveLike(v any) bool {
	return KindOf(v) != KindNone
}

func kindOfValue(rv reflect.Value) Kind {
	if !rv.IsValid() {
		return KindNone
	}
	switch rv.Type() {
	case typeTime:
		return KindTime
	case typeDateTime:
		return KindDateTime
	case typeUUID:
		return KindUUID
	}
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isEnum(rv.Type()) {
			return KindEnum
		}
		return KindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if isEnum(rv.Type()) {
			return KindEnum
		}
		return KindUint
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Complex64, reflect.Complex128:
		return KindComplex
	default:
		return KindNone
	}
}

// isEnum: a named integer type with a String method, the Go spelling of an enumeration.
func isEnum(rt reflect.Type) bool {
	return rt.Name() != "" && rt.PkgPath() != "" && rt.Implements(typeStringer)
}

// Render formats a primitive-like value for use as a field value.
// nil renders as the empty string. Values of any other kind fall back to fmt.
func Render(v any) string {
	rv := indirect(reflect.ValueOf(v))
	if !rv.IsValid() {
		return ""
	}
	return renderValue(rv)
}

func renderValue(rv reflect.Value) string {
	switch kindOfValue(rv) {
	case KindString:
		return quote(rv.String())
	case KindBool:
		return strconv.FormatBool(rv.Bool())
	case KindInt:
		return strconv.FormatInt(rv.Int(), 10)
	case KindUint:
		return strconv.FormatUint(rv.Uint(), 10)
	case KindFloat:
		return strconv.FormatFloat(rv.Float(), 'g', -1, rv.Type().Bits())
	case KindComplex:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, rv.Type().Bits())
	case KindEnum:
		return rv.Interface().(fmt.Stringer).String()
	case KindDateTime:
		return rv.Interface().(DateTime).Format(layoutDateTime)
	case KindTime:
		return rv.Interface().(time.Time).Format(layoutTime)
	case KindUUID:
		return `"` + rv.Interface().(uuid.UUID).String() + `"`
	case KindNone:
		if rv.IsValid() && rv.CanInterface() {
			return fmt.Sprint(rv.Interface())
		}
		return ""
	default:
		panic(fmt.Sprintf("convention: unhandled kind %v", kindOfValue(rv)))
	}
}

// quote wraps s in double quotes, embedded double quotes become single quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}
