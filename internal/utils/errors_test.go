package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/salwynchristopher/portfolio/internal/api/dto/common"
	"github.com/salwynchristopher/portfolio/internal/contact"
	"github.com/salwynchristopher/portfolio/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runError(t *testing.T, err error) (*httptest.ResponseRecorder, common.MessageResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/contact", nil)

	HandleAPIError(c, logging.NewNop(), err)

	var body common.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleAPIErrorContactError(t *testing.T) {
	w, body := runError(t, &contact.Error{Kind: contact.KindInvalidInput, Message: contact.MsgInvalidEmail})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, contact.MsgInvalidEmail, body.Message)
}

func TestHandleAPIErrorHidesCause(t *testing.T) {
	w, body := runError(t, &contact.Error{
		Kind:    contact.KindSendFailed,
		Message: contact.MsgSendFailed,
		Err:     errors.New("535 authentication failed for user admin"),
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, contact.MsgSendFailed, body.Message)
	assert.NotContains(t, w.Body.String(), "535")
}

func TestHandleAPIErrorUnknown(t *testing.T) {
	w, body := runError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, body.Success)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestHandleSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleSuccess(c, contact.MsgSent)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Email sent successfully"}`, w.Body.String())
}
