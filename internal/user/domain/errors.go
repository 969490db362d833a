package domain

import (
	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
)

const CodeUserNotFound = "USER_NOT_FOUND"

// UserNotFoundError carries the requested id in its raw string form.
type UserNotFoundError struct {
	UserID string
}

func (e UserNotFoundError) Error() string   { return "user not found: " + e.UserID }
func (e UserNotFoundError) Code() string    { return CodeUserNotFound }
func (e UserNotFoundError) Message() string { return "User not found" }

func (e UserNotFoundError) Meta() commonerrors.Meta {
	return commonerrors.Meta{"user_id": e.UserID}
}
