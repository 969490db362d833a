package commonerrors

import "errors"

type Meta map[string]any

// AppError is a coded application failure whose code, message and meta are
// safe to return to the client.
type AppError interface {
	error
	Code() string
	Message() string
	Meta() Meta
}

func AsAppError(err error) (AppError, bool) {
	var ae AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
