package domain

import "errors"

// Input errors.
var (
	ErrValidation = errors.New("validation failed")
)

// Authentication errors. The HTTP layer collapses all of them into 401.
var (
	ErrUnauthorized       = errors.New("unauthorized request")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMismatch      = errors.New("refresh token is expired or used")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrIdentityNotFound   = errors.New("identity no longer exists")
)

// Authorization and lookup errors.
var (
	ErrForbidden    = errors.New("access forbidden")
	ErrSelfRelation = errors.New("cannot subscribe to your own channel")
	ErrNotFound     = errors.New("resource not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user with email or username already exists")
	ErrEdgeExists   = errors.New("relation already exists")
)

// Collaborator errors.
var (
	ErrUploadFailed = errors.New("upload failed")
)
