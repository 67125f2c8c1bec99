// Package convention renders arbitrary values into single line
// "key=value, key=value" strings for text oriented log pipelines.
//
//	convention.LogMapping("Bob", convention.NewMapping(
//		convention.F("FullName", "Jim"),
//		convention.F("IsCow", false),
//	))
//	// Bob fullname="Jim", iscow=false
//
// Traversal is bounded by a depth budget rather than cycle detection: once the
// budget is spent the branch is replaced by Sentinel, so self referencing
// values terminate but legitimately deep ones are truncated.
package convention

import (
	"reflect"
	"strings"
)

const (
	// MaxDepth is the default number of nested levels rendered.
	MaxDepth = 3

	// Sentinel replaces any branch deeper than the depth budget.
	Sentinel = "log_error=The object being logged contains too much complexity. Please rethink the purpose of this log message and simplify what is being logged."
)

var defaultFormatter = New()

// Formatter renders values with a fixed depth budget. It holds no mutable
// state and is safe for concurrent use.
type Formatter struct {
	maxDepth int
}

func New(opts ...*Option) *Formatter {
	opt := NewOption()
	for _, op := range opts {
		if op != nil && op.maxDepth > 0 {
			opt = opt.SetMaxDepth(op.maxDepth)
		}
	}
	return &Formatter{maxDepth: opt.MaxDepth()}
}

// Default returns the formatter used by the package level helpers.
func Default() *Formatter {
	return defaultFormatter
}

func (f *Formatter) MaxDepth() int {
	return f.maxDepth
}

// ForLogging renders v after message with lower cased keys.
func ForLogging(message string, v any) string {
	return defaultFormatter.FormatForLog(message, v, true)
}

// LogMapping renders the mapping after message with lower cased keys.
func LogMapping(message string, pairs *Mapping) string {
	return defaultFormatter.FormatMapping(message, pairs, true)
}

// FormatForLog renders v after message. A nil v leaves message unchanged.
func (f *Formatter) FormatForLog(message string, v any, lowerKey bool) string {
	if _, cat := classify(v); cat == categoryNull {
		return message
	}
	return withMessage(message, f.FormatValue(v, lowerKey, 0))
}

// FormatMapping renders each pair as key=value after message. Values get a
// fresh depth budget. An empty or nil mapping leaves message unchanged.
func (f *Formatter) FormatMapping(message string, pairs *Mapping, lowerKey bool) string {
	if pairs.Len() == 0 {
		return message
	}
	parts := make([]string, 0, pairs.Len())
	for _, field := range pairs.fields {
		parts = append(parts, f.pair(field, lowerKey, 0))
	}
	return withMessage(message, strings.Join(parts, ", "))
}

// FormatValue is the recursive core. The depth check runs before anything
// else, so an exhausted budget yields Sentinel even for nil or a leaf.
// Top level strings are returned raw; strings held by a member are quoted.
func (f *Formatter) FormatValue(v any, lowerKey bool, depth int) string {
	if depth >= f.maxDepth {
		return Sentinel
	}
	rv, cat := classify(v)
	switch cat {
	case categoryNull:
		return ""
	case categoryPrimitive:
		if kindOfValue(rv) == KindString {
			return rv.String()
		}
		return renderValue(rv)
	case categoryCollection:
		return f.formatCollection(rv, lowerKey, depth)
	default:
		return f.joinFields(members(rv), lowerKey, depth)
	}
}

func (f *Formatter) joinFields(fields []Field, lowerKey bool, depth int) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, f.pair(field, lowerKey, depth))
	}
	return strings.Join(parts, ", ")
}

// FormatCollection renders items as [a,b,c]. Elements are formatted at the
// given depth, nested collections one level deeper; composite elements with
// members are wrapped in braces.
// Anything that is not a slice or array is treated as a single element.
func (f *Formatter) FormatCollection(items any, lowerKey bool, depth int) string {
	rv, cat := classify(items)
	switch cat {
	case categoryNull:
		return "[]"
	case categoryCollection:
		return f.formatCollection(rv, lowerKey, depth)
	default:
		return "[" + f.element(items, lowerKey, depth) + "]"
	}
}

func (f *Formatter) formatCollection(rv reflect.Value, lowerKey bool, depth int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.element(rv.Index(i).Interface(), lowerKey, depth))
	}
	b.WriteByte(']')
	return b.String()
}

// element renders one collection item. A nested collection costs one level.
// A composite with members is always braced, even when only Sentinel fits.
func (f *Formatter) element(item any, lowerKey bool, depth int) string {
	rv, cat := classify(item)
	switch cat {
	case categoryCollection:
		return f.FormatValue(item, lowerKey, depth+1)
	case categoryComposite:
		fields := members(rv)
		body := Sentinel
		if depth < f.maxDepth {
			body = f.joinFields(fields, lowerKey, depth)
		}
		if len(fields) == 0 {
			return body
		}
		return "{" + body + "}"
	default:
		return f.FormatValue(item, lowerKey, depth)
	}
}

func (f *Formatter) pair(field Field, lowerKey bool, depth int) string {
	key := field.Name
	if lowerKey {
		key = strings.ToLower(key)
	}
	return key + "=" + f.member(field.Value, lowerKey, depth)
}

// member renders a field value: leaves directly, collections and composites
// one level deeper.
func (f *Formatter) member(v any, lowerKey bool, depth int) string {
	rv, cat := classify(v)
	switch cat {
	case categoryNull:
		return ""
	case categoryPrimitive:
		return renderValue(rv)
	case categoryCollection:
		return f.formatCollection(rv, lowerKey, depth+1)
	default:
		return "{" + f.FormatValue(v, lowerKey, depth+1) + "}"
	}
}

func withMessage(message, body string) string {
	switch {
	case message == "":
		return body
	case body == "":
		return message
	default:
		return message + " " + body
	}
}
