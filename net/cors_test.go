package net

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, ParseOrigins(""))
	assert.Nil(t, ParseOrigins("  "))
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, ParseOrigins(" https://a.io, https://b.io,"))
}

func TestCorsHandler(t *testing.T) {
	opt := CORSOptions{AllowedOrigins: []string{"https://app.example.com"}, AllowCredentials: true, MaxAge: 600}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CorsHandler(opt)(next)

	t.Run("no origin passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Empty(t, rec.Header().Get(corsAllowOriginHeader))
	})

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(corsOriginHeader, "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get(corsAllowOriginHeader))
		assert.Equal(t, "true", rec.Header().Get(corsAllowCredentialsHeader))
		assert.Equal(t, corsOriginHeader, rec.Header().Get(corsVaryHeader))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(corsOriginHeader, "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Empty(t, rec.Header().Get(corsAllowOriginHeader))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set(corsOriginHeader, "https://app.example.com")
		req.Header.Set(corsRequestMethodHeader, "PUT")
		req.Header.Set(corsRequestHeadersHeader, "X-Custom")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PUT", rec.Header().Get(corsAllowMethodsHeader))
		assert.Equal(t, "X-Custom", rec.Header().Get(corsAllowHeadersHeader))
		assert.Equal(t, "600", rec.Header().Get(corsMaxAgeHeader))
	})

	t.Run("wildcard", func(t *testing.T) {
		wild := CorsHandler(CORSOptions{AllowedOrigins: []string{"*"}})(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(corsOriginHeader, "https://any.example.com")
		rec := httptest.NewRecorder()
		wild.ServeHTTP(rec, req)
		assert.Equal(t, "https://any.example.com", rec.Header().Get(corsAllowOriginHeader))
		assert.Empty(t, rec.Header().Get(corsAllowCredentialsHeader))
	})
}
