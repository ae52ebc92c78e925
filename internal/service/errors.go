package service

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrForbidden       = errors.New("record belongs to another user")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrEmailTaken      = errors.New("user with this email already exists")
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrNoLogo          = errors.New("no logo uploaded")
	ErrNotEnoughPoints = errors.New("not enough history to forecast")
)
