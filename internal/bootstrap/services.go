package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/OrderOfTheOverflow/globalsiteselector/config"
	redisadapter "github.com/OrderOfTheOverflow/globalsiteselector/internal/adapters/redis"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/adapters/staticauth"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/data"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/ports"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/service"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/token"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AutoLogin *service.AutoLoginService
	AppTokens *service.AppTokenService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires adapters and services from shared infrastructure.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := token.NewCodec(cfg.Federation.JWTKey)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build token codec: %w", err)
	}

	accountRepo := data.NewAccountRepo(deps.DB)
	sessionStore := redisadapter.NewSessionStore(deps.RedisClient)
	appTokenStore := redisadapter.NewAppTokenStore(deps.RedisClient)

	auth, err := buildAuthenticator(cfg, accountRepo, logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	mode := federation.Mode(cfg.Federation.Mode)

	autoLogin := service.NewAutoLoginService(service.AutoLoginOptions{
		Mode:        mode,
		MasterURL:   cfg.Federation.MasterURL,
		HomeURL:     homeURL(cfg.HTTP.BaseURL),
		Codec:       codec,
		Provisioner: service.NewProvisionService(accountRepo),
		Auth:        auth,
		Sessions:    sessionStore,
		SessionTTL:  cfg.Federation.SessionTTL,
		Logger:      logger,
	})

	appTokens := service.NewAppTokenService(service.AppTokenOptions{
		Mode:   mode,
		Tokens: appTokenStore,
		TTL:    cfg.Federation.AppTokenTTL,
	})

	return ServiceContainer{
		AutoLogin: autoLogin,
		AppTokens: appTokens,
	}, nil
}

// buildAuthenticator selects the credential backend. Development mode with
// a DEV_USERS table swaps in the static authenticator; everything else
// checks the local account directory.
//
//nolint:ireturn // callers depend on the port, not a concrete backend.
func buildAuthenticator(cfg *config.AppConfig, accountRepo *data.AccountRepo, logger *slog.Logger) (ports.Authenticator, error) {
	if cfg.IsDev && len(cfg.DevUsers) > 0 {
		static, err := staticauth.New(cfg.DevUsers)
		if err != nil {
			return nil, fmt.Errorf("build static authenticator: %w", err)
		}
		logger.Warn("using static dev credentials", "users", len(cfg.DevUsers))
		return static, nil
	}
	return accountRepo, nil
}

// homeURL is where successful auto-logins land.
func homeURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/"
}
