package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/AlibekovAA/crudik/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	"github.com/AlibekovAA/crudik/internal/common/events"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	"github.com/AlibekovAA/crudik/internal/common/tracing"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
	userrepo "github.com/AlibekovAA/crudik/internal/user/repository"
)

const pong = "pong"

type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (userdomain.User, error)
}

type UnitOfWork interface {
	Add(entity any)
	Flush(ctx context.Context) error
	Commit(ctx context.Context) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// UserService runs the user use cases of a single request. All writes go
// through uow and become durable only when CreateUser commits.
type UserService struct {
	uow       UnitOfWork
	users     userrepo.Gateway
	current   CurrentUserProvider
	publisher EventPublisher
	ids       crypto.IDGenerator
	log       *logger.Logger
}

func NewUserService(
	uow UnitOfWork,
	users userrepo.Gateway,
	current CurrentUserProvider,
	publisher EventPublisher,
	ids crypto.IDGenerator,
	log *logger.Logger,
) *UserService {
	return &UserService{
		uow:       uow,
		users:     users,
		current:   current,
		publisher: publisher,
		ids:       ids,
		log:       log,
	}
}

// CreateUser stores a new user and links it to the caller's identity in one
// transaction.
func (s *UserService) CreateUser(ctx context.Context) (user userdomain.User, err error) {
	ctx, span := tracing.StartSpan(ctx, "user.create")
	defer func() { tracing.EndSpan(span, err) }()

	user = userdomain.User{ID: s.ids.NewID()}
	s.uow.Add(user)
	if err = s.uow.Flush(ctx); err != nil {
		return userdomain.User{}, err
	}

	if err = s.publisher.Publish(ctx, userdomain.UserCreated{UserID: user.ID}); err != nil {
		return userdomain.User{}, err
	}

	if err = s.uow.Commit(ctx); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": user.ID.String(),
			"action":  "user_create_commit_failed",
		}).Errorf("commit failed: %v", err)
		return userdomain.User{}, err
	}

	incrementUsersCreated()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": user.ID.String(),
		"action":  "user_created",
	}).Info("user created")
	return user, nil
}

// ReadUser returns the user identified by rawID when it is the caller.
// The caller is resolved before rawID is parsed.
func (s *UserService) ReadUser(ctx context.Context, rawID string) (user userdomain.User, err error) {
	ctx, span := tracing.StartSpan(ctx, "user.read")
	defer func() { tracing.EndSpan(span, err) }()

	current, err := s.current.CurrentUser(ctx)
	if err != nil {
		incrementUserReads(outcomeUnauthorized)
		return userdomain.User{}, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		incrementUserReads(outcomeNotFound)
		s.log.WithFields(ctx, logger.Fields{
			"user_id": rawID,
			"action":  "user_read_malformed_id",
		}).Debug("user id is not a uuid")
		return userdomain.User{}, userdomain.UserNotFoundError{UserID: rawID}
	}

	user, err = s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			incrementUserReads(outcomeNotFound)
			return userdomain.User{}, userdomain.UserNotFoundError{UserID: rawID}
		}
		return userdomain.User{}, err
	}

	if user.ID != current.ID {
		incrementUserReads(outcomeDenied)
		s.log.WithFields(ctx, logger.Fields{
			"user_id":    id.String(),
			"current_id": current.ID.String(),
			"action":     "user_read_denied",
		}).Warn("access to foreign user denied")
		return userdomain.User{}, commonerrors.AccessDeniedError{}
	}

	incrementUserReads(outcomeOK)
	return user, nil
}

func (s *UserService) Ping(context.Context) string {
	return pong
}
