package logger

import (
	"reflect"

	"go.uber.org/zap"
)

// LogFactory hands out named loggers.
type LogFactory interface {
	// CreateLog names the log after the Go type of v.
	CreateLog(v any) *Log
	CreateNamedLog(name string) *Log
}

type zapFactory struct {
	base *zap.Logger
}

// NewLogFactory derives every log from base, or from the process logger when
// base is nil.
func NewLogFactory(base *zap.Logger) LogFactory {
	return &zapFactory{base: base}
}

func (f *zapFactory) root() *zap.Logger {
	if f.base != nil {
		return f.base
	}
	return Base()
}

func (f *zapFactory) CreateLog(v any) *Log {
	return f.CreateNamedLog(TypeName(v))
}

func (f *zapFactory) CreateNamedLog(name string) *Log {
	return NewLog(f.root().Named(name))
}

// TypeName returns the package qualified name of v's type, pointers removed.
func TypeName(v any) string {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return "unknown"
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" || rt.PkgPath() == "" {
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}
