package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive     = errors.New("ACCOUNT_INACTIVE")
	ErrInvalidAddress      = errors.New("INVALID_ADDRESS")
	ErrAddressUnresolvable = errors.New("ADDRESS_UNRESOLVABLE")
	ErrUnknownService      = errors.New("UNKNOWN_SERVICE")
	ErrCacheDisabled       = errors.New("CACHE_DISABLED")
)
