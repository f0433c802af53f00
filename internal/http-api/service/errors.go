package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Handlers map these to HTTP status
// codes with errors.Is; anything outside the taxonomy is a 500.
var (
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrEmailInUse         = errors.New("email already in use")

	ErrUserNotFound    = errors.New("user not found")
	ErrNovelNotFound   = errors.New("novel not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrRatingNotFound  = errors.New("rating not found")

	ErrNotOwner = errors.New("not the author of this novel")

	ErrConflict = errors.New("concurrent update could not be resolved")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
