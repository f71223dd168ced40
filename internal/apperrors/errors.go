package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypePermission     ErrorType = "permission"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeUnavailable    ErrorType = "unavailable"
	ErrorTypeDatabase       ErrorType = "database"
	ErrorTypeInternal       ErrorType = "internal"
)

// genericFailureMessage is what callers see for storage and internal failures.
const genericFailureMessage = "something went wrong, please try again"

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches another AppError by type and code.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext returns a copy of the error carrying an extra field. Predefined
// errors are shared values, so they are never mutated in place.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	cp := *e
	cp.Context = make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		cp.Context[k] = v
	}
	cp.Context[key] = value
	return &cp
}

// PublicMessage is the text safe to show to an end user.
func (e *AppError) PublicMessage() string {
	switch e.Type {
	case ErrorTypeDatabase, ErrorTypeInternal:
		return genericFailureMessage
	default:
		return e.Message
	}
}

// HTTPStatus maps the error type to a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypePermission:
		return http.StatusForbidden
	case ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
	}
}

// As extracts an AppError from err. Errors that are not AppErrors are
// reported as internal failures.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}

// Handler provides error handling strategies
type Handler struct {
	logger   *slog.Logger
	security *slog.Logger
}

// NewHandler creates a new error handler. Permission failures go to the
// security logger; everything else goes to logger.
func NewHandler(logger, security *slog.Logger) *Handler {
	return &Handler{logger: logger, security: security}
}

// Handle logs an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
		return
	}

	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeConflict:
		h.logger.WarnContext(ctx, "Request rejected", appErr.LogFields()...)
	case ErrorTypePermission, ErrorTypeAuthentication:
		// Scope denials are logged where they are decided, with the target id.
		if appErr.Is(ErrAccessDenied) {
			return
		}
		h.security.WarnContext(ctx, "Access rejected", appErr.LogFields()...)
	case ErrorTypeRateLimit:
		h.security.WarnContext(ctx, "Rate limit exceeded", appErr.LogFields()...)
	case ErrorTypeUnavailable:
		h.logger.WarnContext(ctx, "Feature unavailable", appErr.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Critical error", appErr.LogFields()...)
	}
}

// Reading validation
var (
	ErrOutOfRangeGlucose = New(ErrorTypeValidation, "OUT_OF_RANGE_GLUCOSE", "glucose level must be a number between 40 and 600 mg/dL")
	ErrInvalidInsulin    = New(ErrorTypeValidation, "INVALID_INSULIN", "insulin units must be a number greater than or equal to 0")
	ErrInvalidHbA1c      = New(ErrorTypeValidation, "INVALID_HBA1C", "HbA1c must be a number between 0 and 20")
	ErrInvalidTimestamp  = New(ErrorTypeValidation, "INVALID_TIMESTAMP", "measurement time must not be in the future")
)

// Linking
var (
	ErrInvalidCodeFormat  = New(ErrorTypeValidation, "INVALID_CODE_FORMAT", "invitation code must be 8 characters")
	ErrCodeNotFound       = New(ErrorTypeNotFound, "CODE_NOT_FOUND", "no patient found with this invitation code")
	ErrAlreadyLinked      = New(ErrorTypeConflict, "ALREADY_LINKED", "you are already linked to this patient")
	ErrSelfLinkNotAllowed = New(ErrorTypeValidation, "SELF_LINK_NOT_ALLOWED", "you cannot link to your own account")
	ErrLinkNotFound       = New(ErrorTypeNotFound, "LINK_NOT_FOUND", "link not found")
)

// Access
var (
	ErrAccessDenied = New(ErrorTypePermission, "ACCESS_DENIED", "you do not have access to this data")
	ErrPatientOnly  = New(ErrorTypePermission, "PATIENT_ONLY", "only patients can perform this action")
	ErrGuardianOnly = New(ErrorTypePermission, "GUARDIAN_ONLY", "only guardians can perform this action")
)

// Accounts and profiles
var (
	ErrInvalidCredentials  = New(ErrorTypeAuthentication, "INVALID_CREDENTIALS", "invalid email or password")
	ErrEmailTaken          = New(ErrorTypeConflict, "EMAIL_TAKEN", "an account with this email already exists")
	ErrInvalidRole         = New(ErrorTypeValidation, "INVALID_ROLE", "role must be patient or guardian")
	ErrInvalidDiabetesType = New(ErrorTypeValidation, "INVALID_DIABETES_TYPE", "diabetes type must be type1, type2 or prediabetes")
	ErrInvalidFullName     = New(ErrorTypeValidation, "INVALID_FULL_NAME", "full name must be between 1 and 120 characters")
	ErrProfileNotFound     = New(ErrorTypeNotFound, "PROFILE_NOT_FOUND", "profile not found")
)

// Records and reports
var (
	ErrRecordNotFound    = New(ErrorTypeNotFound, "RECORD_NOT_FOUND", "glucose record not found")
	ErrInvalidPeriod     = New(ErrorTypeValidation, "INVALID_PERIOD", "period must be one of all, 7d, 30d, this_month")
	ErrArchiveDisabled   = New(ErrorTypeUnavailable, "ARCHIVE_DISABLED", "report archiving is not configured")
	ErrRateLimitExceeded = New(ErrorTypeRateLimit, "RATE_LIMIT", "too many attempts, please wait and try again")
)

func NewDatabaseError(err error) *AppError {
	return Wrap(err, ErrorTypeDatabase, "DB_ERROR", "Database operation failed")
}

func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal server error")
}
