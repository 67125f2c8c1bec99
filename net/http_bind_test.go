package net

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email string `json:"email"`
}

func (s *signup) Validate() error {
	if !strings.Contains(s.Email, "@") {
		return errors.New("email is invalid")
	}
	return nil
}

func TestBindAndValidate(t *testing.T) {
	var ok signup
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.io"}`))
	require.NoError(t, BindAndValidate(req, &ok))
	assert.Equal(t, "a@b.io", ok.Email)

	var bad signup
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	err := BindAndValidate(req, &bad)
	var fe *FriendlyError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadRequest, fe.StatusCode)
	assert.Equal(t, "email is invalid", fe.Reason)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err = BindAndValidate(req, &bad)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "invalid request body", fe.Reason)
	assert.Equal(t, "{", fe.Content)
}

func TestCloneBodyWithLimitReader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
	code, raw, err := CloneBodyWithLimitReader(req, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello", string(raw))
	restored, _ := io.ReadAll(req.Body)
	assert.Equal(t, "hello", string(restored))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello!"))
	code, _, err = CloneBodyWithLimitReader(req, 5)
	assert.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	req.Header.Set(headerContentLength, "100")
	code, _, err = CloneBodyWithLimitReader(req, 5)
	assert.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)

	assert.Equal(t, "fallback", QueryParams(httptest.NewRequest(http.MethodGet, "/?a=", nil), "a", "fallback"))
	assert.Equal(t, []string{"1", "2"}, GetQueryParams(httptest.NewRequest(http.MethodGet, "/?a=1&a=2", nil), "a"))
}
