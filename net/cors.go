package net

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CORSOptions controls cross origin access.
type CORSOptions struct {
	// AllowedOrigins lists the origins echoed back in Access-Control-Allow-Origin.
	// "*" allows every origin.
	AllowedOrigins []string
	// AllowCredentials adds Access-Control-Allow-Credentials: true.
	AllowCredentials bool
	// MaxAge of a preflight answer in seconds, omitted when zero.
	MaxAge int
}

// ParseOrigins splits a comma separated list of sites, spaces removed.
func ParseOrigins(sites string) []string {
	sites = strings.ReplaceAll(sites, " ", "")
	if sites == "" {
		return nil
	}
	var origins []string
	for _, s := range strings.Split(sites, ",") {
		if s != "" {
			origins = append(origins, s)
		}
	}
	return origins
}

func (o *CORSOptions) allowed(origin string) bool {
	return slices.Contains(o.AllowedOrigins, origin) || slices.Contains(o.AllowedOrigins, "*")
}

func (o *CORSOptions) writeHeaders(w http.ResponseWriter, origin string) {
	if o.allowed(origin) {
		w.Header().Set(corsAllowOriginHeader, origin)
		w.Header().Add(corsVaryHeader, corsOriginHeader)
	}
	if o.AllowCredentials {
		w.Header().Set(corsAllowCredentialsHeader, "true")
	}
}

// preflight answers an OPTIONS request carrying an Origin header, echoing the
// requested method and headers.
func (o *CORSOptions) preflight(w http.ResponseWriter, r *http.Request) {
	o.writeHeaders(w, r.Header.Get(corsOriginHeader))
	if methods := r.Header.Values(corsRequestMethodHeader); len(methods) > 0 {
		w.Header().Set(corsAllowMethodsHeader, strings.Join(methods, ", "))
	}
	if headers := r.Header.Values(corsRequestHeadersHeader); len(headers) > 0 {
		w.Header().Set(corsAllowHeadersHeader, strings.Join(headers, ", "))
	}
	if o.MaxAge > 0 {
		w.Header().Set(corsMaxAgeHeader, strconv.Itoa(o.MaxAge))
	}
	w.WriteHeader(http.StatusOK)
}

func isCORSRequest(r *http.Request) bool {
	return r.Header.Get(corsOriginHeader) != ""
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions && isCORSRequest(r)
}

// CorsHandler applies opt to every request. Requests without an Origin header
// pass through untouched.
func CorsHandler(opt CORSOptions) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isCORSRequest(r) {
				h.ServeHTTP(w, r)
				return
			}
			if isPreflight(r) {
				opt.preflight(w, r)
				return
			}
			opt.writeHeaders(w, r.Header.Get(corsOriginHeader))
			h.ServeHTTP(w, r)
		})
	}
}

// methodNotAllowedHandler answers preflight requests for routes that were not
// registered with OPTIONS, mux never runs middleware for those.
func methodNotAllowedHandler(cors *CORSOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cors != nil && isPreflight(r) {
			cors.preflight(w, r)
			return
		}
		getLogEntry().Debug("method not allowed",
			zap.String("http_method", r.Method),
			zap.String("path", r.URL.Path))
		WriteFriendlyError(w, NewFriendlyError(http.StatusMethodNotAllowed, "method not allowed"))
	})
}
