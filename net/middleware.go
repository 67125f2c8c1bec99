package net

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Options configures Middleware. A nil CORS disables cross origin headers,
// a nil Authenticator disables token checks.
type Options struct {
	CORS          *CORSOptions
	MaxBodyBytes  int64
	Authenticator TokenValidator
}

func recoveryHandler(middlewareFunc []http.HandlerFunc) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					getLogEntry().Error("Panic recovered in middleware",
						zap.Any("recover", rec),
						zap.Stack("stack"),
					)
					WriteFriendlyError(w, NewFriendlyError(http.StatusInternalServerError, "internal server error"))
				}
			}()
			// Set the request-Id
			if requestId := r.Header.Get(xApiRequestId); requestId == "" {
				r.Header.Set(xApiRequestId, uuid.NewString())
			}
			for _, Func := range middlewareFunc {
				Func(w, r)
			}
			h.ServeHTTP(w, r)
		})
	}
}

// Middleware installs the standard chain on ro: CORS, panic recovery with a
// request id, request scoped logger, API logger and, when configured, JWT
// authorization. It returns ro.
func Middleware(ro *mux.Router, opt *Options, middlewareFunc ...http.HandlerFunc) http.Handler {
	if opt == nil {
		opt = &Options{}
	}
	entry := getLogEntry()

	chain := make([]mux.MiddlewareFunc, 0, 5)
	if opt.CORS != nil {
		entry.Debug("CORS is enabled", zap.Strings("origins", opt.CORS.AllowedOrigins))
		chain = append(chain, CorsHandler(*opt.CORS))
	} else {
		entry.Debug("CORS is disabled")
	}
	chain = append(chain,
		recoveryHandler(middlewareFunc),
		loggerIntercepter,
		apiLoggerHandler(opt.MaxBodyBytes),
	)
	if opt.Authenticator != nil {
		chain = append(chain, AuthorizeJWT(opt.Authenticator))
	}

	// Replace the default MethodNotAllowedHandler
	ro.MethodNotAllowedHandler = methodNotAllowedHandler(opt.CORS)

	// Apply the middleware in order
	ro.Use(chain...)

	// Walk through all the registered routes
	if err := ro.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			entry.Debug("HTTP/1.1",
				zap.String("http_method", "ANY"),
				zap.String("path", pathTemplate),
			)
			return nil
		}
		for _, method := range methods {
			entry.Debug("HTTP/1.1",
				zap.String("http_method", method),
				zap.String("path", pathTemplate),
			)
		}
		return nil
	}); err != nil {
		entry.Warn("Error walking routes", zap.Error(err))
	}

	return ro
}
