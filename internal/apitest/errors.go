package apitest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return "User with this email already exists"
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "Invalid email or password"
}

// ErrNotFound indicates a missing record
type ErrNotFound struct {
	Kind string
	ID   int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

// ErrNoQuizResponse indicates generation was requested before any quiz submission
type ErrNoQuizResponse struct{}

func (e *ErrNoQuizResponse) Error() string {
	return "No quiz response found. Please take the quiz first."
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists   *ErrEmailAlreadyExists
		invalid  *ErrInvalidCredentials
		notFound *ErrNotFound
		noQuiz   *ErrNoQuizResponse
	)
	switch {
	case errors.As(err, &exists), errors.As(err, &noQuiz):
		return http.StatusBadRequest
	case errors.As(err, &invalid):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// validationDetails maps each failing field to the tags it violated.
func validationDetails(err error) map[string][]string {
	details := map[string][]string{}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		details["_request"] = []string{"invalid request"}
		return details
	}
	for _, ve := range validationErrors {
		details[ve.Field()] = append(details[ve.Field()], ve.Tag())
	}
	return details
}
