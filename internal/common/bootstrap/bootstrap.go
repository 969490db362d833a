package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/crudik/internal/api"
	authrepo "github.com/AlibekovAA/crudik/internal/auth/repository"
	authservice "github.com/AlibekovAA/crudik/internal/auth/service"
	"github.com/AlibekovAA/crudik/internal/common/clock"
	"github.com/AlibekovAA/crudik/internal/common/config"
	"github.com/AlibekovAA/crudik/internal/common/crypto"
	"github.com/AlibekovAA/crudik/internal/common/db"
	"github.com/AlibekovAA/crudik/internal/common/events"
	commonhttp "github.com/AlibekovAA/crudik/internal/common/http"
	"github.com/AlibekovAA/crudik/internal/common/jwtverify"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
	userhttp "github.com/AlibekovAA/crudik/internal/user/http"
	userrepo "github.com/AlibekovAA/crudik/internal/user/repository"
	userservice "github.com/AlibekovAA/crudik/internal/user/service"
)

// Database is the part of the connection pool the application needs.
type Database interface {
	db.Beginner
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// App holds the process-wide dependencies. Everything tied to a single
// request is built by NewScope.
type App struct {
	cfg      config.Config
	log      *logger.Logger
	db       Database
	verifier *jwtverify.Verifier
	ids      crypto.IDGenerator
}

func NewApp(cfg config.Config, log *logger.Logger, database Database) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		db:       database,
		verifier: jwtverify.NewVerifier(cfg.Auth.JWTAlgorithm, clock.NewRealClock()),
		ids:      crypto.NewUUIDGenerator(),
	}
}

func (a *App) Router() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Log: a.log,
		Trace: commonhttp.TraceConfig{
			Header:   a.cfg.Tracing.TraceIDHeader,
			Required: a.cfg.Tracing.TraceIDRequired,
		},
		Readiness: db.NewReadinessCheck(a.db),
		Scopes:    a.NewScope,
	})
}

// NewScope wires the request-scoped graph around a fresh unit of work. The
// gateways, the identity providers and the event handler all share it.
func (a *App) NewScope(r *http.Request) userhttp.Scope {
	uow := db.NewUnitOfWork(a.db, userrepo.InsertMapper, authrepo.InsertMapper)
	users := userrepo.NewPgGateway(uow)
	authUsers := authrepo.NewPgGateway(uow)

	idp := authservice.NewWebAuthUserIDProvider(authservice.WebAuthConfig{
		UserIDHeader:         a.cfg.Auth.UserIDHeader,
		AccessTokenHeader:    a.cfg.Auth.AccessTokenHeader,
		AllowUnverifiedEmail: a.cfg.Auth.AllowUnverifiedEmail,
	}, r.Header, a.verifier, a.log)
	current := authservice.NewUserIDProvider(idp, authUsers, a.log)

	publisher := events.NewPublisher()
	publisher.Subscribe(
		userdomain.UserCreatedEvent,
		authservice.NewUserCreatedHandler(uow, idp, authUsers, users, a.log),
	)

	return &Scope{
		uow:   uow,
		users: userservice.NewUserService(uow, users, current, publisher, a.ids, a.log),
	}
}

type Scope struct {
	uow   *db.UnitOfWork
	users *userservice.UserService
}

func (s *Scope) Users() userhttp.UserInteractor {
	return s.users
}

// Close rolls back whatever the request did not commit.
func (s *Scope) Close(ctx context.Context) error {
	if err := s.uow.Close(ctx); err != nil {
		return fmt.Errorf("failed to close request scope: %w", err)
	}
	return nil
}
