package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10099: System & Common errors
// 10100-10199: Storage errors
// 20000-20099: Homework API errors
// 20100-20199: API response shape errors
// 20200-20299: Homework status errors
// 20300-20399: Delivery errors

const (
	// ========== System & Common Errors (10000-10199) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	ConfigInvalid       ErrorCode = 10003
	ServiceUnavailable  ErrorCode = 10004
	Timeout             ErrorCode = 10005

	// Storage errors (10100-10199)
	CacheError    ErrorCode = 10100
	DatabaseError ErrorCode = 10101

	// ========== Homework Errors (20000-20399) ==========

	// Homework API (20000-20099)
	APIRequestFailed    ErrorCode = 20000
	APIUnexpectedStatus ErrorCode = 20001
	APIDecodeFailed     ErrorCode = 20002

	// Response shape (20100-20199)
	ResponseNotObject     ErrorCode = 20100
	HomeworksMissing      ErrorCode = 20101
	HomeworksNotList      ErrorCode = 20102
	CurrentDateMissing    ErrorCode = 20103
	CurrentDateInvalid    ErrorCode = 20104
	HomeworkRecordInvalid ErrorCode = 20105

	// Homework status (20200-20299)
	HomeworkNameMissing   ErrorCode = 20200
	HomeworkStatusMissing ErrorCode = 20201
	UnknownHomeworkStatus ErrorCode = 20202

	// Delivery (20300-20399)
	NotificationFailed ErrorCode = 20300
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	ConfigInvalid:       "Invalid configuration",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	CacheError:    "Cache operation failed",
	DatabaseError: "Database operation failed",

	APIRequestFailed:    "Homework API request failed",
	APIUnexpectedStatus: "Homework API returned unexpected status",
	APIDecodeFailed:     "Homework API returned invalid JSON",

	ResponseNotObject:     "Homework API response is not an object",
	HomeworksMissing:      "Homework API response has no homeworks key",
	HomeworksNotList:      "Homework API response homeworks is not a list",
	CurrentDateMissing:    "Homework API response has no current_date key",
	CurrentDateInvalid:    "Homework API response current_date is not an integer",
	HomeworkRecordInvalid: "Homework record is not an object",

	HomeworkNameMissing:   "Homework record has no homework_name",
	HomeworkStatusMissing: "Homework record has no status",
	UnknownHomeworkStatus: "Unknown homework status",

	NotificationFailed: "Failed to send notification",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == InvalidParams:
		return 400
	case c == Timeout:
		return 504
	case c == ServiceUnavailable:
		return 503
	case c >= 20000 && c < 20400: // upstream failures surfaced through the bot
		return 502
	default:
		return 500
	}
}
