package logger

import (
	"github.com/golang-devkit/logconv/convention"
	"go.uber.org/zap"
)

type formatted struct {
	v any
}

func (f formatted) String() string {
	return convention.ForLogging("", f.v)
}

type formattedMapping struct {
	m *convention.Mapping
}

func (f formattedMapping) String() string {
	return convention.LogMapping("", f.m)
}

// Formatted is a zap field holding v rendered as key=value pairs.
// Rendering happens when the entry is encoded.
func Formatted(key string, v any) zap.Field {
	return zap.Stringer(key, formatted{v: v})
}

func Mapping(key string, m *convention.Mapping) zap.Field {
	return zap.Stringer(key, formattedMapping{m: m})
}
