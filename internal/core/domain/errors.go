package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfModification   = errors.New("cannot change role or ban status of your own account")
	ErrBanReasonRequired  = errors.New("a reason is required to ban a user")

	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("access forbidden")

	ErrArtworkNotFound = errors.New("artwork not found")
	ErrArtworkExists   = errors.New("artwork slug already in use")
	ErrEditionNotFound = errors.New("edition not found")
	ErrEditionSoldOut  = errors.New("edition sold out")
	ErrOriginalSold    = errors.New("original artwork no longer available")
	ErrInvalidArtwork  = errors.New("invalid artwork")

	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInvalidTransition = errors.New("invalid status transition")
)
