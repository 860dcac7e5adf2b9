package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performGET(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestSuccessEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"value": 42})
	})

	w := performGET(r, "/ok")
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Error)
	assert.NotEmpty(t, resp.Metadata.RequestID)
	assert.NotEmpty(t, resp.Metadata.Timestamp)
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.Metadata.RequestID)
}

func TestFailEnvelopeCarriesCodeAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrAlreadyAttempted)
	})

	w := performGET(r, "/fail")
	require.Equal(t, http.StatusConflict, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrAlreadyAttempted, resp.Error.Code)
	assert.Equal(t, GetMessage(ErrAlreadyAttempted), resp.Error.Message)
	assert.Empty(t, resp.Error.Fields)
}

func TestFailWithFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/invalid", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{
			"username": "username is required",
		})
	})

	w := performGET(r, "/invalid")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "username is required", resp.Error.Fields["username"])
}

func TestEveryErrCodeHasMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrTokenRequired, ErrTokenInvalid, ErrTokenExpired,
		ErrForbidden, ErrUserAccessOnly, ErrAdminAccessOnly,
		ErrValidation, ErrInvalidID, ErrInvalidPayload, ErrUnknownQuestion,
		ErrNotFound, ErrConflict, ErrDependencyExists,
		ErrQuizNotFound, ErrNoQuestions, ErrAlreadyAttempted, ErrNotAttempted, ErrAttemptExpired,
		ErrRateLimitExceeded, ErrInternal,
	}

	for _, code := range codes {
		assert.NotEmpty(t, GetMessage(code), "missing message for %s", code)
	}
}
