package services

import "errors"

var (
	ErrAllFieldsRequired   = errors.New("All fields are required")
	ErrCredentialsRequired = errors.New("Username and password are required")
	ErrPasswordMismatch    = errors.New("Passwords do not match")
	ErrEmailTaken          = errors.New("Email already taken")
	ErrUsernameTaken       = errors.New("Username already taken")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrSessionNotFound     = errors.New("session not found")

	ErrNotFound         = errors.New("Not found.")
	ErrPermissionDenied = errors.New("You do not have permission to perform this action.")

	ErrFollowUserRequired = errors.New("user field is required")
	ErrFollowSelf         = errors.New("Cannot follow yourself")
	ErrBlockedRequired    = errors.New("blocked field is required")
	ErrBlockSelf          = errors.New("Cannot block yourself")
	ErrImageRequired      = errors.New("image field is required")
	ErrCommentBodyEmpty   = errors.New("body field is required")
	ErrInvalidInput       = errors.New("invalid input")
)
