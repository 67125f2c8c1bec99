package net

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFriendlyError_Body(t *testing.T) {
	assert.Equal(t, "404 Not Found - no such user", NewFriendlyError(http.StatusNotFound, "no such user").Body())
	assert.Equal(t, "400 Bad Request - bad input \r\n {\"a\":1}",
		NewFriendlyError(http.StatusBadRequest, "bad input", `{"a":1}`).Body())
	assert.Empty(t, NewFriendlyError(http.StatusNoContent, "nothing").Body())
}

func TestNewFriendlyError_Reason(t *testing.T) {
	fe := NewFriendlyError(http.StatusBadRequest, "line one\r\nline two\nthree\r")
	assert.Equal(t, "line oneline twothree", fe.Reason)

	long := strings.Repeat("é", 600)
	fe = NewFriendlyError(http.StatusBadRequest, long)
	assert.Equal(t, 512, len([]rune(fe.Reason)))
}

func TestWriteError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, http.StatusBadGateway, fmt.Errorf("upstream down"))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "upstream down", rec.Header().Get(xDescriptionError))
		assert.Equal(t, "502 Bad Gateway - upstream down", rec.Body.String())
	})

	t.Run("wrapped friendly error keeps its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := fmt.Errorf("binding: %w", NewFriendlyError(http.StatusConflict, "duplicate"))
		WriteError(rec, http.StatusInternalServerError, err)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "409 Conflict - duplicate", rec.Body.String())
	})

	t.Run("no content", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteFriendlyError(rec, NewFriendlyError(http.StatusNoContent, "gone"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
