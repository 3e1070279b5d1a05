package service

import "errors"

var (
	// ErrUnauthorized means no valid session backs the operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials means login input did not match a staff user.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoRecipients rejects a dispatch before any provider call is made.
	ErrNoRecipients = errors.New("recipients must not be empty")

	// ErrMissingFields rejects a web message missing title, content or priority.
	ErrMissingFields = errors.New("missing required fields: title, content, priority")

	// ErrInvalidPriority rejects a web message with an unknown priority value.
	ErrInvalidPriority = errors.New("priority must be one of: low, medium, high")
)
