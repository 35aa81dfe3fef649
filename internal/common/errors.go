// Package common contains shared sentinel errors used across the client
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport / auth errors surfaced by the API client.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")

	// Validation errors checked before any network call.
	ErrTitleRequired        = errors.New("title is required")
	ErrNameRequired         = errors.New("name is required")
	ErrRoleRequired         = errors.New("role is required")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrInvalidPhone         = errors.New("valid phone number required")
	ErrQueryTooShort        = errors.New("query too short")
	ErrInvalidContactType   = errors.New("invalid contact type")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters long")
	ErrPasswordNoLowercase  = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit      = errors.New("password must contain at least one number")
	ErrPasswordMismatch     = errors.New("passwords don't match")
	ErrConfirmNameMismatch  = errors.New("entered name does not match")

	// Cache errors.
	ErrNotCached = errors.New("list not cached")
)
