package service

import (
	"fmt"

	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
)

const (
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeAuthUserAlreadyExists = "AUTH_USER_ALREADY_EXISTS"
)

type UnauthorizedReason string

const (
	ReasonMissingUserID        UnauthorizedReason = "MISSING_USER_ID"
	ReasonMissingAccessToken   UnauthorizedReason = "MISSING_ACCESS_TOKEN"
	ReasonCorruptedAccessToken UnauthorizedReason = "CORRUPTED_ACCESS_TOKEN"
	ReasonEmailIsNotVerified   UnauthorizedReason = "EMAIL_IS_NOT_VERIFIED"
	ReasonInvalidAuthUserID    UnauthorizedReason = "INVALID_AUTH_USER_ID"
)

// UnauthorizedError reports a request whose identity is missing, malformed,
// unverified or unknown. Header names the offending header, if any.
type UnauthorizedError struct {
	Reason UnauthorizedReason
	Header string
	Cause  error
}

func (e UnauthorizedError) Error() string {
	msg := fmt.Sprintf("unauthorized: %s", e.Reason)
	if e.Header != "" {
		msg += " (" + e.Header + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e UnauthorizedError) Unwrap() error   { return e.Cause }
func (e UnauthorizedError) Code() string    { return CodeUnauthorized }
func (e UnauthorizedError) Message() string { return "Unauthorized" }

func (e UnauthorizedError) Meta() commonerrors.Meta {
	meta := commonerrors.Meta{"reason": string(e.Reason), "header": nil}
	if e.Header != "" {
		meta["header"] = e.Header
	}
	return meta
}

type AuthUserAlreadyExistsError struct {
	AuthUserID string
	Cause      error
}

func (e AuthUserAlreadyExistsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth user %q already exists: %v", e.AuthUserID, e.Cause)
	}
	return fmt.Sprintf("auth user %q already exists", e.AuthUserID)
}

func (e AuthUserAlreadyExistsError) Unwrap() error   { return e.Cause }
func (e AuthUserAlreadyExistsError) Code() string    { return CodeAuthUserAlreadyExists }
func (e AuthUserAlreadyExistsError) Message() string { return "Auth user already exists" }

func (e AuthUserAlreadyExistsError) Meta() commonerrors.Meta {
	return commonerrors.Meta{"auth_user_id": e.AuthUserID}
}
