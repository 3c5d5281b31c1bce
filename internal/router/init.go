package router

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/widyatama/go-account-api/config"
	"github.com/widyatama/go-account-api/internal/application"
	pginfra "github.com/widyatama/go-account-api/internal/infrastructure/postgres"
	handlers "github.com/widyatama/go-account-api/internal/interface/http"
	"github.com/widyatama/go-account-api/internal/router/modules"
	"github.com/widyatama/go-account-api/pkg/hasher"
	"github.com/widyatama/go-account-api/pkg/token"
)

// Deps carries everything the modules need; main builds the clients
// and hands them in here, so nothing in this tree reaches for globals.
type Deps struct {
	Cfg      *config.Config
	Logger   *logrus.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Tokens   *token.Manager
	Notifier application.Notifier
	Indexer  application.AccountIndexer
	Storage  application.AvatarStorage
}

// InitModules wires repositories, the application service and handlers,
// and registers every feature module with the registry.
func InitModules(r *Registry, d Deps) {
	repo := pginfra.NewAccountRepository(d.Pool)

	svc := application.NewService(
		repo,
		hasher.NewBcrypt(d.Cfg.BcryptCost),
		d.Tokens,
		d.Notifier,
		d.Indexer,
		d.Storage,
		d.Logger,
		d.Cfg.VerificationTTL,
		d.Cfg.ResetTTL,
	)

	authHandler := handlers.NewAuthHandler(svc, d.Tokens, d.Logger, d.Cfg.CookieDomain, d.Cfg.CookieSecure)
	acctHandler := handlers.NewAccountHandler(svc, d.Logger)

	mounter := modules.NewMounter(d.Tokens, d.Redis)

	r.Add(modules.NewAuthModule(authHandler, mounter))
	r.Add(modules.NewAccountModule(acctHandler, mounter))
	if d.Cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(mounter))
	}
}
