package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/creativityhunt/creahunt/internal/pkg/errcode"
)

func TestSigninCodeFlow(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	// step one: ask for a code
	resp, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":        "hunter@example.com",
		"login_method": "code",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 0, out.Code)
	require.NotEmpty(t, out.TraceID)
	require.NotEmpty(t, out.RequestID)

	var step1 struct {
		VerificationToken string `json:"verification_token"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &step1))
	require.NotEmpty(t, step1.VerificationToken)

	code := env.sender.sentCode()
	require.Len(t, code, 6)

	// step two: verify
	resp, out = doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":              "hunter@example.com",
		"login_method":       "code",
		"verification_code":  code,
		"verification_token": step1.VerificationToken,
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 0, out.Code)

	var step2 struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &step2))
	require.NotEmpty(t, step2.Token)
	require.Equal(t, "hunter@example.com", step2.User.Email)
	require.Regexp(t, `^User_[0-9a-zA-Z]{6}$`, step2.User.Name)
	require.NotContains(t, string(out.Data), "password_hash")

	// the session token works against /auth/me
	resp, out = doJSON(t, env.router, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + step2.Token,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 0, out.Code)

	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &me))
	require.Equal(t, "hunter@example.com", me.User.Email)
}

func TestSigninWrongCode(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	_, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":        "wrong@example.com",
		"login_method": "code",
	}, nil)
	require.EqualValues(t, 0, out.Code)

	var step1 struct {
		VerificationToken string `json:"verification_token"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &step1))

	resp, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":              "wrong@example.com",
		"login_method":       "code",
		"verification_code":  "000000",
		"verification_token": step1.VerificationToken,
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, errcode.ErrInvalidVerification, out.Code)
	require.Equal(t, "Invalid or expired verification code", out.Message)
}

func TestSigninMissingParams(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	// code without token
	resp, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":             "partial@example.com",
		"login_method":      "code",
		"verification_code": "123456",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, errcode.ErrInvalidParams, out.Code)

	// unsupported login method
	_, out = doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":        "partial@example.com",
		"login_method": "password",
	}, nil)
	require.EqualValues(t, errcode.ErrInvalidLoginMethod, out.Code)

	// missing email
	_, out = doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"login_method": "code",
	}, nil)
	require.EqualValues(t, errcode.ErrInvalidParams, out.Code)
}

func TestSignupAndMe(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	resp, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"name":     "Maker",
		"email":    "maker@example.com",
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 0, out.Code)
	require.NotContains(t, string(out.Data), "password_hash")

	var created struct {
		User struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &created))
	require.Equal(t, "maker@example.com", created.User.Email)
	require.Equal(t, "Maker", created.User.Name)

	// duplicate signup keeps the envelope and reports a conflict
	resp, out = doJSON(t, env.router, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"name":     "Maker",
		"email":    "maker@example.com",
		"password": "hunter22",
	}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, errcode.ErrConflict, out.Code)
}

func TestMeRequiresSession(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	resp, out := doJSON(t, env.router, http.MethodGet, "/api/v1/auth/me", nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, errcode.ErrUnauthorized, out.Code)

	resp, out = doJSON(t, env.router, http.MethodGet, "/api/v1/auth/me", nil, map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, errcode.ErrUnauthorized, out.Code)
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	env, cleanup := setupRouter(t)
	defer cleanup()

	resp, out := doJSON(t, env.router, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.EqualValues(t, 0, out.Code)
}
