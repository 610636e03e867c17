// Package repository defines error values reused across repositories.
// These sentinels let handlers distinguish failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrEmailExists is returned on an attempt to register an email that is
// already taken. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a looked-up row does not exist. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")
