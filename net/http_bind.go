package net

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

var (
	firstOf = func(args []string) string {
		if len(args) > 0 {
			return args[0]
		}
		return ""
	}
)

// Validator is implemented by request models that check their own fields.
type Validator interface {
	Validate() error
}

func GetHeader(r *http.Request, key string) string {
	return r.Header.Get(key)
}

func QueryParams(r *http.Request, key string, def ...string) string {

	if val := r.URL.Query().Get(key); val != "" {
		return val
	}
	return firstOf(def)
}

func GetQueryParams(r *http.Request, key string) []string {
	return r.URL.Query()[key]
}

func GetRawData(r *http.Request) ([]byte, error) {

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			getLogEntry().Debug("failed to close request body")
		}
	}(r.Body)

	return io.ReadAll(r.Body)
}

func CloneBodyWithLimitReader(r *http.Request, limit int64) (httpStatusCode int, raw []byte, err error) {
	if r.Body == nil {
		return http.StatusOK, nil, nil
	}
	// Check Content-Length header first, a missing header is not an error
	if contentLength, perr := strconv.ParseInt(r.Header.Get(headerContentLength), 10, 64); perr == nil && contentLength > limit {
		return http.StatusRequestEntityTooLarge, nil, fmt.Errorf("request body too large: exceeds %d bytes, got %d bytes", limit, contentLength)
	}
	// Continue to read body if content-length is acceptable
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
		// Restore the original body for further reading
		r.Body = io.NopCloser(bytes.NewReader(raw))
	}(r.Body)
	// Read one byte past the limit to detect oversized bodies without Content-Length
	raw, err = io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	if int64(len(raw)) > limit {
		raw = nil
		return http.StatusRequestEntityTooLarge, nil, fmt.Errorf("request body too large: exceeds %d bytes", limit)
	}
	return http.StatusOK, raw, nil
}

func ShouldBindJSON(r *http.Request, v interface{}) (raw []byte, err error) {

	raw, err = GetRawData(r)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return raw, err
	}

	return raw, nil
}

// BindAndValidate decodes the JSON body into v and runs v.Validate when v
// implements Validator. A failure is returned as a 400 FriendlyError.
func BindAndValidate(r *http.Request, v interface{}) error {
	raw, err := ShouldBindJSON(r, v)
	if err != nil {
		return NewFriendlyError(http.StatusBadRequest, "invalid request body", string(raw))
	}
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return NewFriendlyError(http.StatusBadRequest, err.Error())
		}
	}
	return nil
}
