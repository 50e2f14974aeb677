package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
	"github.com/Zero-Base-1/DonationTracker/internal/session"
)

const (
	sessionCookieName  = "dt_session"
	rememberCookieName = "dt_remember"

	sessionIDKey = "session_id"
	identityKey  = "identity"

	loginPath     = "/login"
	signupPath    = "/signup"
	resetPath     = "/reset-password"
	dashboardPath = "/dashboard"
)

// CookieConfig carries the deployment-dependent cookie attributes.
type CookieConfig struct {
	Secure         bool
	Domain         string
	RememberMaxAge int
}

// SessionMiddleware guarantees every request a server-side session and
// resolves the current identity into the request context: first from the
// session snapshot, then by attempting silent remember-token restoration.
// Handlers never consult process-wide state for the current user.
func SessionMiddleware(sessions *session.Store, remember *service.RememberService, cookies CookieConfig, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(sessionCookieName)
		ensured := sessions.Ensure(sid)
		if ensured != sid {
			setSessionCookie(c, cookies, ensured)
		}
		c.Set(sessionIDKey, ensured)

		ident := sessions.Identity(ensured)
		if ident == nil {
			ident = restoreFromRememberCookie(c, sessions, remember, cookies, logger)
		}
		if ident != nil {
			c.Set(identityKey, *ident)
		}

		c.Next()
	}
}

func restoreFromRememberCookie(c *gin.Context, sessions *session.Store, remember *service.RememberService, cookies CookieConfig, logger *zap.Logger) *model.Identity {
	cookieValue, err := c.Cookie(rememberCookieName)
	if err != nil || cookieValue == "" {
		return nil
	}

	user, rotated, err := remember.Restore(c.Request.Context(), cookieValue)
	if err != nil {
		switch err {
		case service.ErrMalformedToken, service.ErrTokenNotFound, service.ErrTokenExpired:
			clearRememberCookie(c, cookies)
		default:
			// Storage trouble: stay anonymous, keep the cookie for a retry.
			logger.Error("remember-token restoration failed", zap.Error(err))
		}
		return nil
	}

	ident := model.IdentityFromUser(user)
	sessions.SetIdentity(sessionID(c), ident)
	setRememberCookie(c, cookies, rotated)
	return &ident
}

// RequireAuthenticated aborts with a flash + redirect to the login page when
// no identity is attached to the request. Handlers behind it can rely on
// CurrentIdentity succeeding.
func RequireAuthenticated(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			sessions.SetFlash(sessionID(c), "error", "Please sign in to continue.")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin additionally checks the role snapshot. An authenticated
// non-admin is sent back to the dashboard, never to login.
func RequireAdmin(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			sessions.SetFlash(sessionID(c), "error", "Please sign in to continue.")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		if !ident.IsAdmin() {
			sessions.SetFlash(sessionID(c), "error", "You do not have permission to access that area.")
			c.Redirect(http.StatusSeeOther, dashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	if value, ok := c.Get(identityKey); ok {
		if ident, ok := value.(model.Identity); ok {
			return ident, true
		}
	}
	return model.Identity{}, false
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func setSessionCookie(c *gin.Context, cookies CookieConfig, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	// MaxAge 0 keeps it a browser-session cookie.
	c.SetCookie(sessionCookieName, sid, 0, "/", cookies.Domain, cookies.Secure, true)
}

func clearSessionCookie(c *gin.Context, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", cookies.Domain, cookies.Secure, true)
}

func setRememberCookie(c *gin.Context, cookies CookieConfig, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(rememberCookieName, value, cookies.RememberMaxAge, "/", cookies.Domain, cookies.Secure, true)
}

func clearRememberCookie(c *gin.Context, cookies CookieConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(rememberCookieName, "", -1, "/", cookies.Domain, cookies.Secure, true)
}
