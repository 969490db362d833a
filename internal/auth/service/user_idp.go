package service

import (
	"context"
	"errors"

	authrepo "github.com/AlibekovAA/crudik/internal/auth/repository"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
)

// UserIDProvider resolves the calling user through the persisted identity
// link. Every authorization decision compares against its result.
type UserIDProvider struct {
	idp       AuthUserIDProvider
	authUsers authrepo.Gateway
	log       *logger.Logger
}

func NewUserIDProvider(idp AuthUserIDProvider, authUsers authrepo.Gateway, log *logger.Logger) *UserIDProvider {
	return &UserIDProvider{idp: idp, authUsers: authUsers, log: log}
}

func (p *UserIDProvider) CurrentUser(ctx context.Context) (userdomain.User, error) {
	authUserID, err := p.idp.AuthUserID(ctx)
	if err != nil {
		return userdomain.User{}, err
	}

	user, err := p.authUsers.GetUser(ctx, authUserID)
	if err != nil {
		if errors.Is(err, authrepo.ErrAuthUserNotFound) {
			p.log.WithFields(ctx, logger.Fields{
				"auth_user_id": authUserID,
				"action":       "auth_unknown_identity",
			}).Info("no user is linked to auth user id")
			return userdomain.User{}, UnauthorizedError{Reason: ReasonInvalidAuthUserID}
		}
		return userdomain.User{}, err
	}
	return user, nil
}
