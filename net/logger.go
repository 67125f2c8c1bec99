package net

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/logger"

	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 10 * 1024 * 1024

var (
	// Header constants
	hostname = func() string {
		name, err := os.Hostname()
		if err != nil {
			name = "app"
		}
		// Append the process ID to the hostname for uniqueness
		return fmt.Sprintf("%s#%d", name, os.Getpid())
	}()
)

func getLogEntry() *zap.Logger {
	return logger.NewEntry()
}

// getLoggerFromContext retrieves the logger from the context.
func getLoggerFromContext(ctx context.Context) *zap.Logger {
	return logger.GetLoggerFromContext(ctx)
}

func setLoggerToContext(ctx context.Context, entry *zap.Logger) context.Context {
	return logger.SetLoggerToContext(ctx, entry)
}

// loggableHeaders copies h with credentials masked.
func loggableHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get(headerAuthorization) != "" {
		out.Set(headerAuthorization, "***")
	}
	return out
}

func loggerIntercepter(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Create logger with request context
		reqLogger := getLogEntry().With(
			zap.String(logger.KeyNetHttpMethod, r.Method),
			zap.String(logger.KeyNetHttpPath, r.URL.Path),
			zap.String(logger.KeyNetHttpQuery, r.URL.RawQuery),
			zap.String(logger.KeyNetRequestID, r.Header.Get(xApiRequestId)),
			logger.Formatted(logger.KeyNetRequestHeaders, loggableHeaders(r.Header)),
		)
		// Use the context with the logger
		rc := r.WithContext(setLoggerToContext(r.Context(), reqLogger))

		// Call the next handler with the new context
		h.ServeHTTP(w, rc)
	})
}

func apiLoggerHandler(maxBodyBytes int64) func(http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// Get the logger from the context
			reqLogger := getLoggerFromContext(r.Context())

			// make a new response writer with the original writer
			wc := NewHttpWriter(w)
			defer func(start time.Time) {
				// Log the response body after the handler has processed the request
				reqLogger.Debug("API Logger",
					zap.ByteString(logger.KeyNetResponsePayload, wc.Body()),
					zap.Int(logger.KeyNetResponseSize, wc.BodySize()))

				// Log the API request details
				printLogApi(reqLogger, wc, r, start)
			}(time.Now())

			httpStatus, payload, err := CloneBodyWithLimitReader(r, maxBodyBytes)
			if err != nil {
				WriteError(wc, httpStatus, err)
				return
			}
			// Truncate the payload if it's too large
			if len(payload) > maxLoggedBodySize {
				payload = append(payload[:maxLoggedBodySize:maxLoggedBodySize], "..."...)
			}
			// Log the request body
			reqLogger.Debug("API Logger", zap.ByteString(logger.KeyNetRequestPayload, payload))

			// Call the next handler
			h.ServeHTTP(wc, r)
		})
	}
}

// apiLogMapping collects the completion fields of one request.
func apiLogMapping(wc *ResponseWriter, r *http.Request, start time.Time) *convention.Mapping {
	// Collect response headers
	cH := wc.Header()

	return convention.NewMapping(
		convention.F(logger.KeyNetHostname, hostname),
		convention.F(logger.KeyNetRemoteAddr, r.RemoteAddr),
		convention.F(logger.KeyNetHttpMethod, r.Method),
		convention.F(logger.KeyNetHttpPath, r.URL.String()),
		convention.F(logger.KeyNetStatus, wc.Status()),
		convention.F(logger.KeyNetStatusCode, wc.StatusCode()),
		convention.F(logger.KeyNetDuration, time.Since(start)),
		convention.F(logger.KeyNetClientID, r.Header.Get(xApiClientId)),
		convention.F(logger.KeyNetRequestID, r.Header.Get(xApiRequestId)),
		convention.F(logger.KeyNetOrigin, r.Header.Get(headerOrigin)),
		convention.F(logger.KeyNetUserAgent, r.Header.Get(headerUserAgent)),
		convention.F(logger.KeyNetDescription, cH.Get(xDescription)),
		convention.F(logger.KeyNetDescriptionError, cH.Get(xDescriptionError)),
	)
}

func printLogApi(entry *zap.Logger, wc *ResponseWriter, r *http.Request, start time.Time) {
	entry.Info(convention.LogMapping("API request completed", apiLogMapping(wc, r, start)))
}
