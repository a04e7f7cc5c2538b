package application

import (
	"errors"

	repo "github.com/oksasatya/passvault/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnavailable        = errors.New("not configured")
)

// notFound maps repository misses onto target, passing other errors through.
func notFound(err, target error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return target
	}
	return err
}
