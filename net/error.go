package net

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxReasonLength bounds the reason phrase carried in X-Description-Error.
const maxReasonLength = 512

var newlineStripper = strings.NewReplacer("\r\n", "", "\r", "", "\n", "")

// FriendlyError is an HTTP error with a short single line reason and an
// optional longer content, usually a data dump or a trace.
type FriendlyError struct {
	StatusCode int
	Reason     string
	Content    string
}

// NewFriendlyError truncates reason to 512 characters and strips newlines.
// When content is empty the reason alone is sent.
func NewFriendlyError(statusCode int, reason string, content ...string) *FriendlyError {
	if r := []rune(reason); len(r) > maxReasonLength {
		reason = string(r[:maxReasonLength])
	}
	fe := &FriendlyError{
		StatusCode: statusCode,
		Reason:     newlineStripper.Replace(reason),
	}
	if len(content) > 0 {
		fe.Content = content[0]
	}
	return fe
}

func (e *FriendlyError) Error() string {
	return e.Body()
}

// Body is "<code> <status text> - <reason>", followed by the content on its own
// line when present. A 204 has no body.
func (e *FriendlyError) Body() string {
	if e.StatusCode == http.StatusNoContent {
		return ""
	}
	if e.Content != "" {
		return fmt.Sprintf("%d %s - %s \r\n %s", e.StatusCode, http.StatusText(e.StatusCode), e.Reason, e.Content)
	}
	return fmt.Sprintf("%d %s - %s", e.StatusCode, http.StatusText(e.StatusCode), e.Reason)
}

func WriteFriendlyError(w http.ResponseWriter, fe *FriendlyError) {
	w.Header().Set(xDescriptionError, fe.Reason)
	if fe.StatusCode == http.StatusNoContent {
		w.WriteHeader(fe.StatusCode)
		return
	}
	w.Header().Set(headerContentType, "text/plain; charset=utf-8")
	w.WriteHeader(fe.StatusCode)
	if _, err := io.WriteString(w, fe.Body()); err != nil {
		getLogEntry().Debug("failed to write error body")
	}
}

// WriteError writes err with statusCode. A FriendlyError in the chain keeps
// its own status and reason.
func WriteError(w http.ResponseWriter, statusCode int, err error) {
	var fe *FriendlyError
	if errors.As(err, &fe) {
		WriteFriendlyError(w, fe)
		return
	}
	reason := http.StatusText(statusCode)
	if err != nil {
		reason = err.Error()
	}
	WriteFriendlyError(w, NewFriendlyError(statusCode, reason))
}
