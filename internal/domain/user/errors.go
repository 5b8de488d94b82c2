package user

import "errors"

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)
