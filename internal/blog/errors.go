package blog

import (
	"errors"

	"github.com/VitaminP8/blogpost/internal/auth"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateTitle = errors.New("post with this title already exists")
	ErrUnknownEmail   = errors.New("unknown email")
	ErrWrongPassword  = errors.New("wrong password")
	ErrForbidden      = auth.ErrForbidden
	ErrNotFound       = errors.New("not found")
	ErrAuthRequired   = errors.New("authentication required")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternal       = errors.New("internal server error")
)
