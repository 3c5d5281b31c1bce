package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/widyatama/go-account-api/internal/application"
	"github.com/widyatama/go-account-api/internal/domain/entity"
	"github.com/widyatama/go-account-api/internal/interface/middleware"
	"github.com/widyatama/go-account-api/pkg/response"
	"github.com/widyatama/go-account-api/pkg/token"
	"github.com/widyatama/go-account-api/pkg/validation"
)

// AuthHandler exposes the credential lifecycle over HTTP.
type AuthHandler struct {
	Svc     *application.Service
	Tokens  *token.Manager
	Logger  *logrus.Logger
	Cookies *CookieManager
}

func NewAuthHandler(svc *application.Service, tokens *token.Manager, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Tokens: tokens, Logger: logger, Cookies: NewCookieManager(cookieDomain, cookieSecure)}
}

func accountView(a *entity.Account) gin.H {
	v := gin.H{
		"id":         a.ID,
		"email":      a.Email,
		"name":       a.Name,
		"avatar_url": a.AvatarURL,
		"role":       a.Role,
		"status":     a.Status,
		"verified":   a.IsEmailVerified,
		"created_at": a.CreatedAt,
		"updated_at": a.UpdatedAt,
	}
	if a.LastLoginAt != nil {
		v["last_login_at"] = a.LastLoginAt
	}
	return v
}

func (h *AuthHandler) fail(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError && h.Logger != nil {
		h.Logger.WithError(err).WithField("op", op).Error("lifecycle operation failed")
	}
	response.Error[any](c, status, msg, nil)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	acct, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.fail(c, "register", err)
		return
	}
	response.Success(c, http.StatusCreated, accountView(acct), "registered; check your email to verify the account", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}
	pair := res.Tokens
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"account":       accountView(res.Account),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh POST /api/auth/refresh
// The token's signature identifies the account; its validity is then
// decided by comparing against the stored hash.
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, _ := c.Cookie("refresh_token")
	if raw == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			raw = req.RefreshToken
		}
	}
	if raw == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	claims, err := h.Tokens.ParseRefreshToken(raw)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), claims.AccountID, raw)
	if err != nil {
		h.fail(c, "refresh", err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

// Logout POST /api/auth/logout (auth required)
func (h *AuthHandler) Logout(c *gin.Context) {
	id := c.GetString(middleware.CtxAccountIDKey)
	if err := h.Svc.Logout(c.Request.Context(), id); err != nil {
		h.fail(c, "logout", err)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

type verifyRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail POST /api/auth/verify/confirm
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	acct, err := h.Svc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.fail(c, "verify_email", err)
		return
	}
	response.Success(c, http.StatusOK, accountView(acct), "email verified", nil)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendVerification POST /api/auth/verify/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.fail(c, "resend_verification", err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "verification email sent", nil)
}

// ForgotPassword POST /api/auth/password/forgot
// The response is identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, "forgot_password", err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"sent": true}, "if the email is registered, a reset link has been sent", nil)
}

type resetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

// ResetPassword POST /api/auth/password/reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.fail(c, "reset_password", err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated; log in again", nil)
}
