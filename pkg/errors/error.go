package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalError represents a generic internal error.
	GeneralInternalError ErrorCode = "general_internal_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// OrderRejectedError represents an order refused by exchange rules.
	OrderRejectedError ErrorCode = "order_rejected"
	// OrderNotFoundError represents an operation on an unknown order id.
	OrderNotFoundError ErrorCode = "order_not_found"

	// FeedFetchError represents a failed depth endpoint request.
	FeedFetchError ErrorCode = "feed_fetch_error"
	// FeedParseError represents an unparseable depth payload.
	FeedParseError ErrorCode = "feed_parse_error"

	// EventDecodeError represents an undecodable market data envelope.
	EventDecodeError ErrorCode = "event_decode_error"
	// EventPublishError represents a failed trade publication.
	EventPublishError ErrorCode = "event_publish_error"
)

// Severity represents the severity level of an error.
type Severity string

const (
	// SeverityCritical indicates an error that requires immediate attention.
	SeverityCritical Severity = "critical"
	// SeverityHigh indicates an error that should be addressed promptly.
	SeverityHigh Severity = "high"
	// SeverityMedium indicates an error to address in due course.
	SeverityMedium Severity = "medium"
	// SeverityLow indicates an error that can wait.
	SeverityLow Severity = "low"
)

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message is the user-defined error message.
	Message string

	// Code is the machine-readable error code.
	Code ErrorCode

	// Field is the related field the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails with the given parameters.
func NewErrorDetails(message string, code ErrorCode, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error implements the error interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given error has a specific code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	details, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}
	return details.Code == code
}
