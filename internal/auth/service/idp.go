package service

import (
	"context"
	"net/http"

	"github.com/AlibekovAA/crudik/internal/common/jwtverify"
	"github.com/AlibekovAA/crudik/internal/common/logger"
)

type AuthUserIDProvider interface {
	AuthUserID(ctx context.Context) (string, error)
}

type WebAuthConfig struct {
	UserIDHeader         string
	AccessTokenHeader    string
	AllowUnverifiedEmail bool
}

// WebAuthUserIDProvider reads the external identity of one inbound request.
// The result is computed once and reused for the rest of the request.
type WebAuthUserIDProvider struct {
	cfg      WebAuthConfig
	headers  http.Header
	verifier *jwtverify.Verifier
	log      *logger.Logger

	resolved   bool
	authUserID string
	err        error
}

func NewWebAuthUserIDProvider(cfg WebAuthConfig, headers http.Header, verifier *jwtverify.Verifier, log *logger.Logger) *WebAuthUserIDProvider {
	return &WebAuthUserIDProvider{
		cfg:      cfg,
		headers:  headers,
		verifier: verifier,
		log:      log,
	}
}

func (p *WebAuthUserIDProvider) AuthUserID(ctx context.Context) (string, error) {
	if !p.resolved {
		p.authUserID, p.err = p.resolve(ctx)
		p.resolved = true
	}
	return p.authUserID, p.err
}

func (p *WebAuthUserIDProvider) resolve(ctx context.Context) (string, error) {
	values, ok := p.headers[http.CanonicalHeaderKey(p.cfg.UserIDHeader)]
	if !ok || len(values) == 0 {
		p.log.WithFields(ctx, logger.Fields{
			"header": p.cfg.UserIDHeader,
			"action": "auth_missing_user_id",
		}).Info("auth user id header is missing")
		return "", UnauthorizedError{Reason: ReasonMissingUserID, Header: p.cfg.UserIDHeader}
	}
	authUserID := values[0]

	if p.cfg.AllowUnverifiedEmail {
		return authUserID, nil
	}

	if err := p.checkEmailVerified(ctx); err != nil {
		return "", err
	}
	return authUserID, nil
}

func (p *WebAuthUserIDProvider) checkEmailVerified(ctx context.Context) error {
	header := p.cfg.AccessTokenHeader
	raw := p.headers.Get(header)
	if raw == "" {
		return p.reject(ctx, ReasonMissingAccessToken, nil)
	}

	incrementJWTValidations()
	verified, err := p.verifier.EmailVerified(raw)
	if err != nil {
		return p.reject(ctx, ReasonCorruptedAccessToken, err)
	}
	if !verified {
		return p.reject(ctx, ReasonEmailIsNotVerified, nil)
	}
	return nil
}

func (p *WebAuthUserIDProvider) reject(ctx context.Context, reason UnauthorizedReason, cause error) error {
	if reason != ReasonMissingAccessToken {
		incrementJWTValidationFailures(reason)
	}
	entry := p.log.WithFields(ctx, logger.Fields{
		"header": p.cfg.AccessTokenHeader,
		"reason": string(reason),
		"action": "auth_access_token_rejected",
	})
	if cause != nil {
		entry.Infof("access token rejected: %v", cause)
	} else {
		entry.Info("access token rejected")
	}
	return UnauthorizedError{Reason: reason, Header: p.cfg.AccessTokenHeader, Cause: cause}
}
