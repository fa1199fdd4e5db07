package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthenticated indicates the request carried no verified caller identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrUnauthorized indicates invalid or unusable credentials (e.g., a bad refresh token).
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates a stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrTenantRequired indicates no workspace could be resolved for the request.
var ErrTenantRequired = errors.New("workspace could not be resolved")

// ErrNotAMember indicates the workspace resolved but the caller holds no membership in it.
var ErrNotAMember = errors.New("not a member of workspace")

// ErrForbidden indicates a membership exists but its capabilities are insufficient.
// Concrete failures carry the held role and the required capability via ForbiddenError.
var ErrForbidden = errors.New("forbidden")

// Invitation lifecycle failures. Each is distinct and is surfaced verbatim,
// never collapsed into a generic "invitation invalid".
var (
	ErrInvitationExpired = errors.New("invitation expired")
	ErrAlreadyAccepted   = errors.New("invitation already accepted")
	ErrAlreadyMember     = errors.New("already a member of workspace")
	ErrEmailMismatch     = errors.New("invitation email does not match")
	ErrOwnerProtected    = errors.New("operation not permitted on workspace owner")
)

// AppError wraps an unexpected infrastructure error with an HTTP-ish code and
// an operator-facing message. The wrapped detail is logged server-side only.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError that matches ErrDuplicate.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewValidationFailedError creates an AppError that matches ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// ForbiddenError reports an insufficient-capability failure. It always names
// the role the caller holds and the capability (or role set) that was
// required, so clients can disambiguate without the check being downgraded.
type ForbiddenError struct {
	Role     string
	Required string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: role %s lacks %s", e.Role, e.Required)
}

// Is lets errors.Is(err, ErrForbidden) match any ForbiddenError.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// NewForbiddenError creates a ForbiddenError for the held role and required
// capability or role set.
func NewForbiddenError(role, required string) *ForbiddenError {
	return &ForbiddenError{Role: role, Required: required}
}
