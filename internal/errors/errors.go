// Package errors provides structured error types for todo.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Code represents a unique error code.
type Code string

// Error codes for todo.
const (
	// Environment errors
	CodeHomeNotFound  Code = "HOME_NOT_FOUND"
	CodeAppDirCreate  Code = "APP_DIR_CREATE"
	CodeConfigInvalid Code = "CONFIG_INVALID"

	// Storage errors
	CodeStorage Code = "STORAGE"

	// Validation errors
	CodeInvalidDate   Code = "INVALID_DATE"
	CodeInvalidTime   Code = "INVALID_TIME"
	CodeInvalidUUID   Code = "INVALID_UUID"
	CodeInvalidStatus Code = "INVALID_STATUS"
	CodeInvalidOutput Code = "INVALID_OUTPUT"
	CodeInvalidLimit  Code = "INVALID_LIMIT"
	CodeTitleRequired Code = "TITLE_REQUIRED"

	// Lookup errors
	CodeTodoNotFound Code = "TODO_NOT_FOUND"
)

// Category groups error codes by how the CLI treats them.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryEnvironment
	CategoryStorage
	CategoryValidation
	CategoryNotFound
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryEnvironment:
		return "environment"
	case CategoryStorage:
		return "storage"
	case CategoryValidation:
		return "validation"
	case CategoryNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this category abort the process.
func (c Category) Fatal() bool {
	return c == CategoryEnvironment
}

var codeCategories = map[Code]Category{
	CodeHomeNotFound:  CategoryEnvironment,
	CodeAppDirCreate:  CategoryEnvironment,
	CodeConfigInvalid: CategoryEnvironment,
	CodeStorage:       CategoryStorage,
	CodeInvalidDate:   CategoryValidation,
	CodeInvalidTime:   CategoryValidation,
	CodeInvalidUUID:   CategoryValidation,
	CodeInvalidStatus: CategoryValidation,
	CodeInvalidOutput: CategoryValidation,
	CodeInvalidLimit:  CategoryValidation,
	CodeTitleRequired: CategoryValidation,
	CodeTodoNotFound:  CategoryNotFound,
}

// TodoError is the structured error type for todo.
type TodoError struct {
	Code  Code
	What  string
	Why   string
	Fix   string
	Cause error
}

// Error implements the error interface.
func (e *TodoError) Error() string {
	var b strings.Builder
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString(": ")
		b.WriteString(e.Why)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TodoError) Unwrap() error {
	return e.Cause
}

// UserMessage returns a user-friendly message for CLI output.
func (e *TodoError) UserMessage() string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(e.What)
	if e.Why != "" {
		b.WriteString("\n\nWhy: ")
		b.WriteString(e.Why)
	}
	if e.Fix != "" {
		b.WriteString("\n\nFix: ")
		b.WriteString(e.Fix)
	}
	return b.String()
}

// Category returns the error category.
func (e *TodoError) Category() Category {
	if cat, ok := codeCategories[e.Code]; ok {
		return cat
	}
	return CategoryUnknown
}

// Is reports whether target is a TodoError with the same code.
func (e *TodoError) Is(target error) bool {
	t, ok := target.(*TodoError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// --- Error constructors ---

// ErrHomeNotFound returns an error when the user's home directory cannot be resolved.
func ErrHomeNotFound(cause error) *TodoError {
	return &TodoError{
		Code:  CodeHomeNotFound,
		What:  "could not find home directory",
		Fix:   "Set $HOME, or point TODO_HOME at a writable directory",
		Cause: cause,
	}
}

// ErrAppDirCreate returns an error when the app directory cannot be created.
func ErrAppDirCreate(path string, cause error) *TodoError {
	return &TodoError{
		Code:  CodeAppDirCreate,
		What:  fmt.Sprintf("could not create directory %s", path),
		Fix:   "Check permissions on the parent directory, or set TODO_HOME",
		Cause: cause,
	}
}

// ErrConfigInvalid returns an error for invalid configuration.
func ErrConfigInvalid(field, reason string) *TodoError {
	return &TodoError{
		Code: CodeConfigInvalid,
		What: fmt.Sprintf("invalid configuration: %s", field),
		Why:  reason,
		Fix:  "Check ~/.todo/config.yaml and fix the invalid field",
	}
}

// ErrStorage wraps a database failure.
func ErrStorage(op string, cause error) *TodoError {
	return &TodoError{
		Code:  CodeStorage,
		What:  op,
		Cause: cause,
	}
}

// ErrInvalidDate returns an error for a malformed start date.
func ErrInvalidDate(value string, cause error) *TodoError {
	return &TodoError{
		Code:  CodeInvalidDate,
		What:  fmt.Sprintf("invalid date %q", value),
		Why:   "Dates must be formatted as YYYY-MM-DD",
		Fix:   "Example: --date 2024-12-31",
		Cause: cause,
	}
}

// ErrInvalidTime returns an error for a malformed start time.
func ErrInvalidTime(value string, cause error) *TodoError {
	return &TodoError{
		Code:  CodeInvalidTime,
		What:  fmt.Sprintf("invalid time %q", value),
		Why:   "Times must be formatted as HH:MM:SS or HH:MM",
		Fix:   "Example: --time 14:30:00",
		Cause: cause,
	}
}

// ErrInvalidUUID returns an error for a malformed todo identifier.
func ErrInvalidUUID(value string, cause error) *TodoError {
	return &TodoError{
		Code:  CodeInvalidUUID,
		What:  fmt.Sprintf("invalid uuid %q", value),
		Fix:   "Run 'todo list' to see the uuid of each todo",
		Cause: cause,
	}
}

// ErrInvalidStatus returns an error for an unknown list status filter.
func ErrInvalidStatus(value string) *TodoError {
	return &TodoError{
		Code: CodeInvalidStatus,
		What: fmt.Sprintf("invalid status %q", value),
		Why:  "Status must be 0 (pending) or 1 (done)",
	}
}

// ErrInvalidOutput returns an error for an unknown output format.
func ErrInvalidOutput(value string) *TodoError {
	return &TodoError{
		Code: CodeInvalidOutput,
		What: fmt.Sprintf("invalid output format %q", value),
		Why:  "Output must be one of: table, json, yaml",
	}
}

// ErrInvalidLimit returns an error for a negative list limit.
func ErrInvalidLimit(n int) *TodoError {
	return &TodoError{
		Code: CodeInvalidLimit,
		What: fmt.Sprintf("invalid limit %d", n),
		Why:  "Limit must be 0 (no limit) or a positive number",
	}
}

// ErrTitleRequired returns an error when a todo has no title.
func ErrTitleRequired() *TodoError {
	return &TodoError{
		Code: CodeTitleRequired,
		What: "title is required",
		Why:  "A todo cannot have an empty title",
	}
}

// ErrTodoNotFound returns an error when no todo has the given uuid.
func ErrTodoNotFound(id string) *TodoError {
	return &TodoError{
		Code: CodeTodoNotFound,
		What: fmt.Sprintf("todo %s not found", id),
		Why:  "No todo with this uuid exists",
		Fix:  "Run 'todo list' (or 'todo list --status 1' for finished todos) to find it",
	}
}

// AsTodoError attempts to convert an error to a TodoError.
// Returns nil if the error is not a TodoError.
func AsTodoError(err error) *TodoError {
	var todoErr *TodoError
	if stderrors.As(err, &todoErr) {
		return todoErr
	}
	return nil
}

// HasCode reports whether err carries a TodoError with the given code.
func HasCode(err error, code Code) bool {
	if e := AsTodoError(err); e != nil {
		return e.Code == code
	}
	return false
}
