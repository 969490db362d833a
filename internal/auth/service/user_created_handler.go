package service

import (
	"context"
	"errors"
	"fmt"

	authdomain "github.com/AlibekovAA/crudik/internal/auth/domain"
	authrepo "github.com/AlibekovAA/crudik/internal/auth/repository"
	"github.com/AlibekovAA/crudik/internal/common/db"
	"github.com/AlibekovAA/crudik/internal/common/events"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
	userrepo "github.com/AlibekovAA/crudik/internal/user/repository"
)

type UnitOfWork interface {
	Add(entity any)
	Flush(ctx context.Context) error
}

// UserCreatedHandler links the caller's external identity to a freshly
// created user inside the creating transaction.
type UserCreatedHandler struct {
	uow       UnitOfWork
	idp       AuthUserIDProvider
	authUsers authrepo.Gateway
	users     userrepo.Gateway
	log       *logger.Logger
}

func NewUserCreatedHandler(
	uow UnitOfWork,
	idp AuthUserIDProvider,
	authUsers authrepo.Gateway,
	users userrepo.Gateway,
	log *logger.Logger,
) *UserCreatedHandler {
	return &UserCreatedHandler{
		uow:       uow,
		idp:       idp,
		authUsers: authUsers,
		users:     users,
		log:       log,
	}
}

func (h *UserCreatedHandler) Handle(ctx context.Context, event events.Event) error {
	created, ok := event.(userdomain.UserCreated)
	if !ok {
		return fmt.Errorf("user created handler: unexpected event %T", event)
	}

	authUserID, err := h.idp.AuthUserID(ctx)
	if err != nil {
		return err
	}

	exists, err := h.authUsers.Exists(ctx, authUserID)
	if err != nil {
		return err
	}
	if exists {
		return h.conflict(ctx, authUserID, created, nil)
	}

	user, err := h.users.Get(ctx, created.UserID)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.UserNotFoundError{UserID: created.UserID.String()}
		}
		return err
	}

	h.uow.Add(authdomain.AuthUser{AuthUserID: authUserID, UserID: user.ID})
	if err := h.uow.Flush(ctx); err != nil {
		if db.IsUniqueViolation(err) {
			return h.conflict(ctx, authUserID, created, err)
		}
		return err
	}

	incrementAuthUsersLinked()
	h.log.WithFields(ctx, logger.Fields{
		"auth_user_id": authUserID,
		"user_id":      user.ID.String(),
		"action":       "auth_user_linked",
	}).Info("auth user linked")
	return nil
}

func (h *UserCreatedHandler) conflict(ctx context.Context, authUserID string, created userdomain.UserCreated, cause error) error {
	incrementAuthUserLinkConflicts()
	h.log.WithFields(ctx, logger.Fields{
		"auth_user_id": authUserID,
		"user_id":      created.UserID.String(),
		"action":       "auth_user_link_conflict",
	}).Warn("auth user already linked")
	return AuthUserAlreadyExistsError{AuthUserID: authUserID, Cause: cause}
}
