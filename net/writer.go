package net

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
)

// maxLoggedBodySize caps how much of a request or response body is kept for logging.
const maxLoggedBodySize = 128 * 1024

type ResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buffer      *bytes.Buffer
	bodySize    int
}

func (rw *ResponseWriter) Header() http.Header {
	return rw.ResponseWriter.Header()
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	// Keep at most maxLoggedBodySize bytes for the log
	if room := maxLoggedBodySize - rw.buffer.Len(); room > 0 {
		if len(b) > room {
			rw.buffer.Write(b[:room])
			rw.buffer.WriteString("...")
		} else {
			rw.buffer.Write(b)
		}
	}
	// Write to the actual response writer
	n, err := rw.ResponseWriter.Write(b)
	// Track the size of the body written
	rw.bodySize += n
	return n, err
}

func (rw *ResponseWriter) WriteHeader(status int) {
	if rw.wroteHeader {
		return
	}
	rw.wroteHeader = true
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// Hijack implements the http.Hijacker interface for WebSocket support
func (rw *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// --- Additional helper methods

func (rw *ResponseWriter) StatusCode() int {
	return rw.status
}

func (rw *ResponseWriter) Status() string {
	return http.StatusText(rw.status)
}

// Body returns the response a byte slice copy of the response body.
// Maximum size is 128KB plus ellipsis if truncated. This is useful for logging purposes.
func (rw *ResponseWriter) Body() []byte {
	return rw.buffer.Bytes()
}

// BodySize returns the size of the response body written.
// This is size of the actual body, not the logged body.
func (rw *ResponseWriter) BodySize() int {
	return rw.bodySize
}

func NewHttpWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK,
		buffer: bytes.NewBuffer(nil), bodySize: 0}
}
