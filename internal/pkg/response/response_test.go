package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
)

func recordEnvelope(t *testing.T, write func(c *gin.Context)) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	write(c)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestSuccessEnvelope(t *testing.T) {
	rec, env := recordEnvelope(t, func(c *gin.Context) {
		Success(c, map[string]string{"hello": "world"})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, env.Code)
	require.NotEmpty(t, env.TraceID)
	require.NotEmpty(t, env.RequestID)
	require.NotZero(t, env.RequestTime)
	require.NotNil(t, env.Data)
}

func TestFailEnvelopeKeepsHTTP200(t *testing.T) {
	rec, env := recordEnvelope(t, func(c *gin.Context) {
		Fail(c, errcode.ErrUnauthorized, "unauthorized")
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, errcode.ErrUnauthorized, env.Code)
	require.Equal(t, "unauthorized", env.Message)
	require.NotEmpty(t, env.TraceID)
	require.NotEmpty(t, env.RequestID)
}

func TestFailInternalDefaultsCode(t *testing.T) {
	_, env := recordEnvelope(t, func(c *gin.Context) {
		FailInternal(c)
	})
	require.Equal(t, errcode.ErrInternal, env.Code)
	require.NotEmpty(t, env.Message)
}

func TestRequestIDReusedFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(ContextRequestIDKey, "req-123")
	Success(c, nil)
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "req-123", env.RequestID)
}

func TestTraceIDFreshPerResponse(t *testing.T) {
	_, first := recordEnvelope(t, func(c *gin.Context) { Success(c, nil) })
	_, second := recordEnvelope(t, func(c *gin.Context) { Success(c, nil) })
	require.NotEqual(t, first.TraceID, second.TraceID)
}
