// Package server provides the HTTP REST API for the upskilling roadmap service.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// kindConflict is reported for duplicate signups
const kindConflict = "conflict"

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailErr *ErrEmailAlreadyExists
		credErr  *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &emailErr):
		return http.StatusConflict
	case errors.As(err, &credErr):
		return http.StatusUnauthorized
	}

	switch types.ErrorKind(err) {
	case types.KindInput, types.KindUnsupportedFormat:
		return http.StatusBadRequest
	case types.KindAuth:
		return http.StatusUnauthorized
	case types.KindNotFound:
		return http.StatusNotFound
	case types.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorKind extends types.ErrorKind with the account errors
func errorKind(err error) string {
	var (
		emailErr *ErrEmailAlreadyExists
		credErr  *ErrInvalidCredentials
	)
	switch {
	case errors.As(err, &emailErr):
		return kindConflict
	case errors.As(err, &credErr):
		return types.KindAuth
	default:
		return types.ErrorKind(err)
	}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// errorBody builds the reply for err. Internal errors are not echoed to the client.
func errorBody(err error) ErrorResponse {
	kind := errorKind(err)
	if kind == types.KindInternal {
		return ErrorResponse{Error: "internal server error", Kind: kind}
	}
	return ErrorResponse{Error: err.Error(), Kind: kind}
}
