package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	apperrors "github.com/OrderOfTheOverflow/globalsiteselector/internal/errors"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/service"
)

const (
	testMasterURL = "https://master.example.com"
	testHomeURL   = "https://node1.example.com/"
)

// mockAutoLoginService is a test double for service.AutoLoginService.
type mockAutoLoginService struct {
	autoLoginFunc  func(ctx context.Context, tokenString string) service.AutoLoginResult
	getSessionFunc func(ctx context.Context, id string) (*federation.Session, error)
}

func (m *mockAutoLoginService) AutoLogin(ctx context.Context, tokenString string) service.AutoLoginResult {
	if m.autoLoginFunc != nil {
		return m.autoLoginFunc(ctx, tokenString)
	}
	return service.AutoLoginResult{RedirectURL: testMasterURL}
}

func (m *mockAutoLoginService) GetSession(ctx context.Context, id string) (*federation.Session, error) {
	if m.getSessionFunc != nil {
		return m.getSessionFunc(ctx, id)
	}
	return nil, nil
}

// mockAppTokenService is a test double for service.AppTokenService.
type mockAppTokenService struct {
	issueFunc func(ctx context.Context, uid string) (federation.AppToken, error)
}

func (m *mockAppTokenService) Issue(ctx context.Context, uid string) (federation.AppToken, error) {
	if m.issueFunc != nil {
		return m.issueFunc(ctx, uid)
	}
	return federation.AppToken{}, apperrors.Internal("not configured")
}

func testSession(uid string) federation.Session {
	now := time.Now().UTC()
	return federation.Session{
		ID:        "test-session-id",
		UID:       uid,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestFederationHandlers_AutoLogin_Success(t *testing.T) {
	sess := testSession("user1")
	mockSvc := &mockAutoLoginService{
		autoLoginFunc: func(ctx context.Context, tokenString string) service.AutoLoginResult {
			assert.Equal(t, "valid-token", tokenString)
			return service.AutoLoginResult{RedirectURL: testHomeURL, Session: &sess}
		},
	}
	handlers := &FederationHandlers{AutoLogin: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/apps/globalsiteselector/autologin?jwt=valid-token", nil)
	w := httptest.NewRecorder()

	handlers.HandleAutoLogin(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testHomeURL, w.Header().Get("Location"))

	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, sess.ID, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Positive(t, cookie.MaxAge)
}

func TestFederationHandlers_AutoLogin_Failure_RedirectsToMaster(t *testing.T) {
	mockSvc := &mockAutoLoginService{}
	handlers := &FederationHandlers{AutoLogin: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/apps/globalsiteselector/autologin?jwt=garbage", nil)
	w := httptest.NewRecorder()

	handlers.HandleAutoLogin(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testMasterURL, w.Header().Get("Location"))

	resp := w.Result()
	defer resp.Body.Close()
	assert.Empty(t, resp.Cookies())
}

func TestFederationHandlers_AutoLogin_MissingToken(t *testing.T) {
	called := ""
	mockSvc := &mockAutoLoginService{
		autoLoginFunc: func(ctx context.Context, tokenString string) service.AutoLoginResult {
			called = tokenString
			return service.AutoLoginResult{RedirectURL: testMasterURL}
		},
	}
	handlers := &FederationHandlers{AutoLogin: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/apps/globalsiteselector/autologin", nil)
	w := httptest.NewRecorder()

	handlers.HandleAutoLogin(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, testMasterURL, w.Header().Get("Location"))
	assert.Empty(t, called)
}

func TestFederationHandlers_AutoLogin_SecureCookieBehindProxy(t *testing.T) {
	sess := testSession("user1")
	mockSvc := &mockAutoLoginService{
		autoLoginFunc: func(ctx context.Context, tokenString string) service.AutoLoginResult {
			return service.AutoLoginResult{RedirectURL: testHomeURL, Session: &sess}
		},
	}
	handlers := &FederationHandlers{AutoLogin: mockSvc}

	req := httptest.NewRequest(http.MethodGet, "/apps/globalsiteselector/autologin?jwt=tok", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w := httptest.NewRecorder()

	handlers.HandleAutoLogin(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestFederationHandlers_CreateAppToken_Success(t *testing.T) {
	issued := federation.AppToken{
		ID:        "token-id",
		UID:       "user1",
		Token:     "secret-value",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(72 * time.Hour),
	}
	mockTokens := &mockAppTokenService{
		issueFunc: func(ctx context.Context, uid string) (federation.AppToken, error) {
			assert.Equal(t, "user1", uid)
			return issued, nil
		},
	}
	handlers := &FederationHandlers{AppTokens: mockTokens}

	sess := testSession("user1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	handlers.HandleCreateAppToken(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"secret-value"`)
}

func TestFederationHandlers_CreateAppToken_NoSession(t *testing.T) {
	handlers := &FederationHandlers{AppTokens: &mockAppTokenService{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	w := httptest.NewRecorder()

	handlers.HandleCreateAppToken(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestFederationHandlers_CreateAppToken_WrongMode(t *testing.T) {
	mockTokens := &mockAppTokenService{
		issueFunc: func(ctx context.Context, uid string) (federation.AppToken, error) {
			return federation.AppToken{}, apperrors.WrongMode("app tokens are issued by slave nodes only")
		},
	}
	handlers := &FederationHandlers{AppTokens: mockTokens}

	sess := testSession("user1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	handlers.HandleCreateAppToken(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wrong_mode")
}

func TestFederationHandlers_CreateAppToken_InternalError(t *testing.T) {
	mockTokens := &mockAppTokenService{
		issueFunc: func(ctx context.Context, uid string) (federation.AppToken, error) {
			return federation.AppToken{}, apperrors.Internal("store unavailable")
		},
	}
	handlers := &FederationHandlers{AppTokens: mockTokens}

	sess := testSession("user1")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	handlers.HandleCreateAppToken(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Internal detail must not leak to the client.
	assert.NotContains(t, w.Body.String(), "store unavailable")
}
