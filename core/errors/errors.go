package errors

// ErrorCode identifies an application-level failure class. Codes are part of
// the API response contract, so they are stable strings rather than ints.
type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"

	// RSVP domain codes
	ErrEventFull               ErrorCode = "EVENT_FULL"
	ErrAlreadyRegistered       ErrorCode = "ALREADY_REGISTERED"
	ErrCapacityBelowAttendance ErrorCode = "CAPACITY_BELOW_ATTENDANCE"

	// ErrStoreUnavailable marks a failure of an external collaborator
	// (Postgres, Redis, S3, Google). The core never retries; callers decide.
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
)

// AppError is the error type services return to controllers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails attaches structured details for the caller to
// render, e.g. the live attendee count on a rejected capacity change.
func NewAppErrorWithDetails(code ErrorCode, message string, details any, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Err:     err,
	}
}
