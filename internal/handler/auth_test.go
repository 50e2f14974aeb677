package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
	"github.com/Zero-Base-1/DonationTracker/internal/service"
	"github.com/Zero-Base-1/DonationTracker/internal/session"
)

// appFake backs every service with in-memory state for router-level tests.
type appFake struct {
	users        map[int64]*model.User
	nextID       int64
	rememberRows []model.RememberToken
	resetRows    []model.PasswordResetToken
}

func newAppFake() *appFake {
	return &appFake{users: make(map[int64]*model.User)}
}

func (f *appFake) addUser(name, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	f.nextID++
	user := &model.User{ID: f.nextID, Name: name, Email: email, PasswordHash: string(hash), Role: role, CreatedAt: time.Now()}
	f.users[user.ID] = user
	return user
}

func (f *appFake) CreateUser(_ context.Context, name, email, passwordHash, role string) (*model.User, error) {
	f.nextID++
	user := &model.User{ID: f.nextID, Name: name, Email: email, PasswordHash: passwordHash, Role: role, CreatedAt: time.Now()}
	f.users[user.ID] = user
	return user, nil
}

func (f *appFake) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *appFake) GetUserByID(_ context.Context, userID int64) (*model.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *appFake) CountUsers(_ context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *appFake) ReplaceRememberToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_ = f.DeleteRememberTokens(context.Background(), userID)
	f.rememberRows = append(f.rememberRows, model.RememberToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt})
	return nil
}

func (f *appFake) GetRememberToken(_ context.Context, userID int64, tokenHash string) (*model.RememberToken, error) {
	for _, row := range f.rememberRows {
		if row.UserID == userID && row.TokenHash == tokenHash {
			copied := row
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *appFake) DeleteRememberTokens(_ context.Context, userID int64) error {
	kept := f.rememberRows[:0]
	for _, row := range f.rememberRows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	f.rememberRows = kept
	return nil
}

func (f *appFake) ReplaceResetToken(_ context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	_ = f.deleteResetRows(userID)
	f.resetRows = append(f.resetRows, model.PasswordResetToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: time.Now()})
	return nil
}

func (f *appFake) GetResetRecord(_ context.Context, tokenHash string) (*model.ResetRecord, error) {
	for _, row := range f.resetRows {
		if row.TokenHash == tokenHash {
			user, ok := f.users[row.UserID]
			if !ok {
				return nil, pgx.ErrNoRows
			}
			return &model.ResetRecord{UserID: row.UserID, UserName: user.Name, UserEmail: user.Email, ExpiresAt: row.ExpiresAt}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *appFake) DeleteResetTokenByHash(_ context.Context, tokenHash string) error {
	kept := f.resetRows[:0]
	for _, row := range f.resetRows {
		if row.TokenHash != tokenHash {
			kept = append(kept, row)
		}
	}
	f.resetRows = kept
	return nil
}

func (f *appFake) deleteResetRows(userID int64) error {
	kept := f.resetRows[:0]
	for _, row := range f.resetRows {
		if row.UserID != userID {
			kept = append(kept, row)
		}
	}
	f.resetRows = kept
	return nil
}

func (f *appFake) ResetPassword(_ context.Context, userID int64, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	_ = f.deleteResetRows(userID)
	_ = f.DeleteRememberTokens(context.Background(), userID)
	return nil
}

// Unused report/CRUD surface, wired so the full router can be assembled.
func (f *appFake) ListDonations(context.Context, *int64) ([]model.Donation, error) { return nil, nil }
func (f *appFake) GetDonation(context.Context, int64) (*model.Donation, error) {
	return nil, pgx.ErrNoRows
}
func (f *appFake) CreateDonation(context.Context, model.DonationInput, int64) (int64, error) {
	return 1, nil
}
func (f *appFake) UpdateDonation(context.Context, int64, model.DonationInput) error { return nil }
func (f *appFake) DeleteDonation(context.Context, int64) error                      { return nil }
func (f *appFake) ListEvents(context.Context, *int64) ([]model.Event, error)        { return nil, nil }
func (f *appFake) GetEvent(context.Context, int64) (*model.Event, error)            { return nil, pgx.ErrNoRows }
func (f *appFake) CreateEvent(context.Context, model.EventInput, int64) (int64, error) {
	return 1, nil
}
func (f *appFake) UpdateEvent(context.Context, int64, model.EventInput) error { return nil }
func (f *appFake) DeleteEvent(context.Context, int64) error                   { return nil }
func (f *appFake) GetDonationStats(context.Context, *int64) (*model.DonationStats, error) {
	return &model.DonationStats{}, nil
}
func (f *appFake) GetEventStats(context.Context, *int64) (*model.EventStats, error) {
	return &model.EventStats{}, nil
}
func (f *appFake) GetRecentDonations(context.Context, *int64, int) ([]model.Donation, error) {
	return nil, nil
}
func (f *appFake) GetRecentEvents(context.Context, *int64, int) ([]model.Event, error) {
	return nil, nil
}
func (f *appFake) GetMonthlyDonationTotals(context.Context, *int64, int) ([]model.MonthlyTotal, error) {
	return nil, nil
}
func (f *appFake) GetDonationTotalsByEvent(context.Context, *int64) ([]model.EventTotal, error) {
	return nil, nil
}
func (f *appFake) GetDonationTotalsByType(context.Context, *int64) ([]model.TypeTotal, error) {
	return nil, nil
}
func (f *appFake) ListUsers(context.Context) ([]model.UserSummary, error)          { return nil, nil }
func (f *appFake) GetActivityFeed(context.Context, int) ([]model.ActivityItem, error) { return nil, nil }

type testApp struct {
	router   *gin.Engine
	fake     *appFake
	sessions *session.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newAppFake()
	logger := zap.NewNop()
	sessions := session.NewStore()
	cookies := CookieConfig{RememberMaxAge: int((14 * 24 * time.Hour).Seconds())}

	credentials := service.NewCredentialService(fake, logger)
	remember := service.NewRememberService(fake, 14*24*time.Hour, logger)
	reset := service.NewResetService(fake, time.Hour, logger)

	router := gin.New()
	RegisterRoutes(router, RouterDeps{
		Sessions:  sessions,
		Remember:  remember,
		Auth:      NewAuthHandler(credentials, remember, reset, sessions, cookies, true, logger),
		Donations: NewDonationHandler(service.NewDonationService(fake), logger),
		Events:    NewEventHandler(service.NewEventService(fake), logger),
		Reports:   NewReportHandler(service.NewReportService(fake), logger),
		Cookies:   cookies,
		Logger:    logger,
	})

	return &testApp{router: router, fake: fake, sessions: sessions}
}

func (a *testApp) do(method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// cookieByName returns the last matching Set-Cookie, the one a browser
// would keep when a response rotates the same cookie twice.
func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			found = c
		}
	}
	return found
}

func (a *testApp) login(t *testing.T, email, password string, remember bool) []*http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	if remember {
		form.Set("remember", "true")
	}
	w := a.do(http.MethodPost, "/login", form, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	var cookies []*http.Cookie
	if c := cookieByName(w, sessionCookieName); c != nil {
		cookies = append(cookies, c)
	}
	if c := cookieByName(w, rememberCookieName); c != nil {
		cookies = append(cookies, c)
	}
	require.NotEmpty(t, cookies)
	return cookies
}

func TestRequireAuthenticatedRedirects(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The flash message is waiting for the session the redirect carried.
	sid := cookieByName(w, sessionCookieName)
	require.NotNil(t, sid)
	flashW := app.do(http.MethodGet, "/flash", nil, []*http.Cookie{sid})
	require.Equal(t, http.StatusOK, flashW.Code)

	var flash model.FlashResponse
	require.NoError(t, json.Unmarshal(flashW.Body.Bytes(), &flash))
	assert.Equal(t, "Please sign in to continue.", flash.Error)
}

func TestLoginAndMe(t *testing.T) {
	app := newTestApp(t)
	app.fake.addUser("Alice", "alice@example.org", "password123", model.RoleUser)

	cookies := app.login(t, "alice@example.org", "password123", false)

	w := app.do(http.MethodGet, "/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var me model.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.org", me.Email)
	assert.Equal(t, model.RoleUser, me.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.fake.addUser("Alice", "alice@example.org", "password123", model.RoleUser)

	form := url.Values{"email": {"alice@example.org"}, "password": {"wrong"}}
	w := app.do(http.MethodPost, "/login", form, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, cookieByName(w, rememberCookieName))
}

func TestRememberRestoreAfterSessionLoss(t *testing.T) {
	app := newTestApp(t)
	user := app.fake.addUser("Alice", "alice@example.org", "password123", model.RoleUser)

	cookies := app.login(t, "alice@example.org", "password123", true)

	var rememberCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == rememberCookieName {
			rememberCookie = c
		}
	}
	require.NotNil(t, rememberCookie)
	assert.True(t, strings.HasPrefix(rememberCookie.Value, "1:"))
	assert.True(t, rememberCookie.HttpOnly)

	// Session gone (restart, cleared store): only the remember cookie left.
	w := app.do(http.MethodGet, "/me", nil, []*http.Cookie{rememberCookie})
	require.Equal(t, http.StatusOK, w.Code)

	var me model.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, user.ID, me.UserID)

	// Restoration rotated the token.
	rotated := cookieByName(w, rememberCookieName)
	require.NotNil(t, rotated)
	assert.NotEqual(t, rememberCookie.Value, rotated.Value)

	// The consumed cookie no longer authenticates.
	w = app.do(http.MethodGet, "/me", nil, []*http.Cookie{rememberCookie})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMalformedRememberCookieCleared(t *testing.T) {
	app := newTestApp(t)

	bad := &http.Cookie{Name: rememberCookieName, Value: "not-a-token"}
	w := app.do(http.MethodGet, "/me", nil, []*http.Cookie{bad})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The dead cookie was expired on the response.
	for _, c := range w.Result().Cookies() {
		if c.Name == rememberCookieName {
			assert.Equal(t, -1, c.MaxAge)
		}
	}
}

func TestRequireAdminRedirectsNonAdmin(t *testing.T) {
	app := newTestApp(t)
	app.fake.addUser("Alice", "alice@example.org", "password123", model.RoleUser)

	cookies := app.login(t, "alice@example.org", "password123", false)

	w := app.do(http.MethodGet, "/admin/users", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Empty(t, w.Body.String())

	flashW := app.do(http.MethodGet, "/flash", nil, cookies)
	var flash model.FlashResponse
	require.NoError(t, json.Unmarshal(flashW.Body.Bytes(), &flash))
	assert.Equal(t, "You do not have permission to access that area.", flash.Error)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	app := newTestApp(t)
	app.fake.addUser("Admin", "admin@donationtracker.local", "changeme123", model.RoleAdmin)

	cookies := app.login(t, "admin@donationtracker.local", "changeme123", false)

	w := app.do(http.MethodGet, "/admin/users", nil, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutDestroysSessionAndTokens(t *testing.T) {
	app := newTestApp(t)
	user := app.fake.addUser("Alice", "alice@example.org", "password123", model.RoleUser)

	cookies := app.login(t, "alice@example.org", "password123", true)
	require.NotEmpty(t, app.fake.rememberRows)

	w := app.do(http.MethodPost, "/logout", nil, cookies)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, app.fake.rememberRows, "remember tokens for user %d should be revoked", user.ID)

	// The old session cookie no longer authenticates.
	w = app.do(http.MethodGet, "/me", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignupFlow(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"name":             {"Alice"},
		"email":            {"alice@example.org"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	}
	w := app.do(http.MethodPost, "/signup", form, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// No auto-login: the fresh session carries no identity.
	sid := cookieByName(w, sessionCookieName)
	require.NotNil(t, sid)
	meW := app.do(http.MethodGet, "/me", nil, []*http.Cookie{sid})
	assert.Equal(t, http.StatusUnauthorized, meW.Code)

	app.login(t, "alice@example.org", "password123", false)
}

func TestSignupPasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{
		"name":             {"Alice"},
		"email":            {"alice@example.org"},
		"password":         {"password123"},
		"confirm_password": {"different456"},
	}
	w := app.do(http.MethodPost, "/signup", form, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/signup", w.Header().Get("Location"))
	assert.Empty(t, app.fake.users)
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	app.fake.addUser("Alice", "alice@example.org", "oldpassword1", model.RoleUser)

	// Request: the app is built with debug reset links on, so the response
	// carries the link the page would otherwise get out of band.
	w := app.do(http.MethodPost, "/forgot-password", url.Values{"email": {"alice@example.org"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forgot model.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forgot))
	require.NotEmpty(t, forgot.ResetLink)

	link, err := url.Parse(forgot.ResetLink)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// Validate for display.
	w = app.do(http.MethodGet, "/reset-password?token="+url.QueryEscape(token), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reset model.ResetContextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reset))
	assert.Equal(t, "alice@example.org", reset.Email)

	// Consume.
	form := url.Values{
		"token":            {token},
		"password":         {"newpassword2"},
		"confirm_password": {"newpassword2"},
	}
	w = app.do(http.MethodPost, "/reset-password", form, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// The token is single-use.
	w = app.do(http.MethodGet, "/reset-password?token="+url.QueryEscape(token), nil, nil)
	assert.Equal(t, http.StatusGone, w.Code)

	app.login(t, "alice@example.org", "newpassword2", false)
}

func TestForgotPasswordNeutralForUnknownEmail(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodPost, "/forgot-password", url.Values{"email": {"nobody@example.org"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forgot model.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forgot))
	assert.Equal(t, "ok", forgot.Status)
	assert.Empty(t, forgot.ResetLink)
}
