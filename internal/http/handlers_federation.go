package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	apperrors "github.com/OrderOfTheOverflow/globalsiteselector/internal/errors"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/service"
)

// SessionCookieName is the cookie carrying the local session ID.
const SessionCookieName = "gss_session"

// AutoLoginService defines the auto-login operations the HTTP layer needs.
type AutoLoginService interface {
	SessionResolver
	AutoLogin(ctx context.Context, tokenString string) service.AutoLoginResult
}

// SessionResolver resolves a session cookie value into a session.
type SessionResolver interface {
	GetSession(ctx context.Context, id string) (*federation.Session, error)
}

// AppTokenService defines the app-token operations the HTTP layer needs.
type AppTokenService interface {
	Issue(ctx context.Context, uid string) (federation.AppToken, error)
}

// FederationHandlers provides HTTP handlers for the slave gateway endpoints.
type FederationHandlers struct {
	AutoLogin    AutoLoginService
	AppTokens    AppTokenService
	CookieDomain string
	Logger       *slog.Logger
}

func (h *FederationHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// HandleAutoLogin handles the cross-node login endpoint.
// GET /apps/globalsiteselector/autologin?jwt=<token>.
//
// The endpoint is public and reachable cross-origin from the master; it
// always answers with a redirect and never an error body.
func (h *FederationHandlers) HandleAutoLogin(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("jwt")

	result := h.AutoLogin.AutoLogin(r.Context(), tokenString)
	if result.Session != nil {
		h.setSessionCookie(w, r, *result.Session)
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

// HandleCreateAppToken handles app token issuance for logged-in users.
// POST /api/v1/token.
//
// Unlike auto-login the caller is a programmatic client, so failures are
// structured errors rather than redirects.
func (h *FederationHandlers) HandleCreateAppToken(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSessionFromContext(r.Context())
	if !ok {
		// RequireSession should have rejected the request already.
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	token, err := h.AppTokens.Issue(r.Context(), session.UID)
	if err != nil {
		switch {
		case apperrors.IsWrongMode(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "wrong_mode", Err: err})
		case apperrors.IsValidation(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		default:
			h.logger().ErrorContext(r.Context(), "app token issuance failed", "uid", session.UID, "error", err)
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "token_issue_failed", Err: errors.New("could not issue token")})
		}
		return
	}

	WriteJSON(w, http.StatusOK, token)
}

// setSessionCookie attaches the session cookie to the auto-login response.
func (h *FederationHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s federation.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}
