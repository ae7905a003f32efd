package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds the services needed by the HTTP router.
type RouterServices struct {
	AutoLogin    AutoLoginService
	AppTokens    AppTokenService
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter creates and configures the gateway's HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	handlers := &FederationHandlers{
		AutoLogin:    services.AutoLogin,
		AppTokens:    services.AppTokens,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}

	// Public: the master redirects browsers here with the SSO token.
	mux.Handle("GET /apps/globalsiteselector/autologin", http.HandlerFunc(handlers.HandleAutoLogin))

	// Session-authenticated programmatic endpoint.
	mux.Handle("POST /api/v1/token",
		RequireSession(services.AutoLogin)(http.HandlerFunc(handlers.HandleCreateAppToken)))

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}
