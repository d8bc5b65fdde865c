package errs

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrAlreadyExists    = errors.New("record already exists")
)

// ConflictError is returned when a delete is blocked by dependent rows.
type ConflictError struct {
	Entity  string
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

var (
	ErrClientHasProjects = &ConflictError{
		Entity:  "client",
		Message: "cannot delete client with dependent projects",
	}
	ErrProjectHasDependents = &ConflictError{
		Entity:  "project",
		Message: "cannot delete project with dependent tasks or payments",
	}
)

// FieldError describes one rejected payload field. The shape mirrors what the
// web client already renders: {code, message, path: [field]}.
type FieldError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

// ValidationError collects the field errors of one request payload.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, strings.Join(fe.Path, ".")+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, code, message string) {
	e.Errors = append(e.Errors, FieldError{Code: code, Message: message, Path: []string{field}})
}

// OrNil returns e when it holds at least one field error, nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

var ErrStatusMap = map[error]int{
	ErrNotFound:         http.StatusNotFound,
	ErrInvalidReference: http.StatusBadRequest,
	ErrAlreadyExists:    http.StatusConflict,
}

// StatusOf maps an error to the HTTP status the API answers with.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return http.StatusBadRequest
	}
	for knownErr, statusCode := range ErrStatusMap {
		if errors.Is(err, knownErr) {
			return statusCode
		}
	}
	return http.StatusInternalServerError
}
