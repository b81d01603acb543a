package handler

import (
	"github.com/gin-gonic/gin"

	appErr "github.com/creativityhunt/creahunt/internal/pkg/errors"
	"github.com/creativityhunt/creahunt/internal/pkg/response"
	"github.com/creativityhunt/creahunt/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signinRequest struct {
	Email             string `json:"email"`
	LoginMethod       string `json:"login_method"`
	VerificationCode  string `json:"verification_code"`
	VerificationToken string `json:"verification_token"`
}

// Signin drives both steps of the code flow. A request without code and
// token asks for a code to be mailed; a request carrying either is treated
// as the verify step and must carry both.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid request body")
		return
	}
	if req.LoginMethod != "code" {
		handleError(c, appErr.ErrInvalidLoginMethod)
		return
	}
	if req.Email == "" {
		response.FailValidation(c, "email is required")
		return
	}
	if req.VerificationCode == "" && req.VerificationToken == "" {
		h.sendCode(c, req.Email)
		return
	}
	if req.VerificationCode == "" || req.VerificationToken == "" {
		response.FailValidation(c, "missing parameters: email, verification_code and verification_token are required")
		return
	}
	h.verifyCode(c, req)
}

func (h *AuthHandler) sendCode(c *gin.Context, email string) {
	verificationToken, err := h.auth.SendSigninCode(c.Request.Context(), email)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message":            "verification code sent",
		"verification_token": verificationToken,
	})
}

func (h *AuthHandler) verifyCode(c *gin.Context, req signinRequest) {
	user, sessionToken, err := h.auth.VerifySigninCode(c.Request.Context(), req.Email, req.VerificationCode, req.VerificationToken)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "signed in",
		"user":    user,
		"token":   sessionToken,
	})
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, "invalid request body")
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), getUserID(c))
	if err != nil {
		if appErr.IsNotFound(err) {
			handleError(c, appErr.ErrNotFound)
			return
		}
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"user": user})
}

// Logout always succeeds: sessions are stateless and the client simply
// discards its token.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out"})
}
