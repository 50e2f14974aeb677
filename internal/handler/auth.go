package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
	"github.com/Zero-Base-1/DonationTracker/internal/session"
)

// AuthHandler drives the browser auth flows: login, signup, logout and the
// password-reset pages. Form posts are answered with a redirect plus a flash
// message; the reset-context and forgot-password endpoints answer JSON for
// the page to render.
type AuthHandler struct {
	credentials *service.CredentialService
	remember    *service.RememberService
	reset       *service.ResetService
	sessions    *session.Store
	cookies     CookieConfig

	debugResetLinks bool
	logger          *zap.Logger
}

func NewAuthHandler(
	credentials *service.CredentialService,
	remember *service.RememberService,
	reset *service.ResetService,
	sessions *session.Store,
	cookies CookieConfig,
	debugResetLinks bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		credentials:     credentials,
		remember:        remember,
		reset:           reset,
		sessions:        sessions,
		cookies:         cookies,
		debugResetLinks: debugResetLinks,
		logger:          logger,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := CurrentIdentity(c); ok {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		h.flashRedirect(c, "error", "Email and password are required.", loginPath)
		return
	}

	user, err := h.credentials.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.flashRedirect(c, "error", "Invalid credentials. Please try again.", loginPath)
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		h.flashRedirect(c, "error", "Something went wrong. Please try again later.", loginPath)
		return
	}

	h.establish(c, user)

	if req.Remember {
		cookieValue, err := h.remember.Issue(c.Request.Context(), user)
		if err != nil {
			// Login still succeeds; the user just won't be remembered.
			h.logger.Error("failed to issue remember token", zap.Int64("user_id", user.ID), zap.Error(err))
		} else {
			setRememberCookie(c, h.cookies, cookieValue)
		}
	}

	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	if _, ok := CurrentIdentity(c); ok {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}

	var req model.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.flashRedirect(c, "error", "All fields are required.", signupPath)
		return
	}
	if req.Password != req.ConfirmPassword {
		h.flashRedirect(c, "error", "Passwords do not match.", signupPath)
		return
	}

	if _, err := h.credentials.Create(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			h.flashRedirect(c, "error", "An account with this email already exists. Please sign in instead.", signupPath)
		case errors.Is(err, service.ErrInvalidInput):
			h.flashRedirect(c, "error", "Please provide a name, a valid email and a password of at least 8 characters.", signupPath)
		default:
			h.logger.Error("signup failed", zap.Error(err))
			h.flashRedirect(c, "error", "Something went wrong. Please try again later.", signupPath)
		}
		return
	}

	// No auto-login: the new account signs in through the login form.
	h.flashRedirect(c, "success", "Account created! Please sign in to continue.", loginPath)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if ident, ok := CurrentIdentity(c); ok {
		if err := h.remember.RevokeAll(c.Request.Context(), ident.ID); err != nil {
			h.logger.Error("failed to revoke remember tokens", zap.Int64("user_id", ident.ID), zap.Error(err))
		}
	}

	h.sessions.Destroy(sessionID(c))
	clearSessionCookie(c, h.cookies)
	clearRememberCookie(c, h.cookies)
	c.Redirect(http.StatusSeeOther, loginPath)
}

// ForgotPassword answers the same way for known and unknown emails. The raw
// reset token leaves this handler only when debug reset links are enabled;
// real deployments deliver it out of band.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "email address is required"})
		return
	}

	issue, err := h.reset.Request(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("reset request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "something went wrong, please try again later"})
		return
	}

	resp := model.ForgotPasswordResponse{Status: "ok"}
	if h.debugResetLinks && issue != nil {
		resp.ResetLink = resetPath + "?token=" + url.QueryEscape(issue.Token)
	}
	c.JSON(http.StatusOK, resp)
}

// ResetContext validates the token from the query string so the reset form
// can show whose password is being changed.
func (h *AuthHandler) ResetContext(c *gin.Context) {
	record, err := h.reset.Validate(c.Request.Context(), c.Query("token"))
	if err != nil {
		writeResetError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.ResetContextResponse{
		Name:      record.UserName,
		Email:     record.UserEmail,
		ExpiresAt: record.ExpiresAt.Format("2006-01-02 15:04:05"),
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "please enter a new password"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "passwords do not match"})
		return
	}

	if err := h.reset.Consume(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "password must be at least 8 characters long"})
			return
		}
		writeResetError(c, h.logger, err)
		return
	}

	h.flashRedirect(c, "success", "Your password has been reset. You can sign in with the new password now.", loginPath)
}

func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, model.MeResponse{
		UserID: ident.ID,
		Name:   ident.Name,
		Email:  ident.Email,
		Role:   ident.Role,
	})
}

// Flash drains the one-shot messages for the current session.
func (h *AuthHandler) Flash(c *gin.Context) {
	sid := sessionID(c)
	var resp model.FlashResponse
	if msg, ok := h.sessions.TakeFlash(sid, "success"); ok {
		resp.Success = msg
	}
	if msg, ok := h.sessions.TakeFlash(sid, "error"); ok {
		resp.Error = msg
	}
	c.JSON(http.StatusOK, resp)
}

// establish swaps the session for a fresh one before attaching the identity,
// so an id handed out pre-login can never name an authenticated session.
func (h *AuthHandler) establish(c *gin.Context, user *model.User) {
	h.sessions.Destroy(sessionID(c))

	sid := h.sessions.Ensure("")
	ident := model.IdentityFromUser(user)
	h.sessions.SetIdentity(sid, ident)

	c.Set(sessionIDKey, sid)
	c.Set(identityKey, ident)
	setSessionCookie(c, h.cookies, sid)
}

func (h *AuthHandler) flashRedirect(c *gin.Context, key, message, path string) {
	h.sessions.SetFlash(sessionID(c), key, message)
	c.Redirect(http.StatusSeeOther, path)
}

func writeResetError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound), errors.Is(err, service.ErrTokenExpired):
		c.JSON(http.StatusGone, model.ErrorResponse{Error: "this reset link is invalid or has expired"})
	default:
		logger.Error("reset token handling failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "something went wrong, please try again later"})
	}
}
