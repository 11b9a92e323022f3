package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrConflict           ErrCode = "CONFLICT"
	ErrDependencyExists   ErrCode = "DEPENDENCY_EXISTS"
	ErrDuplicateStudentNo ErrCode = "DUPLICATE_STUDENT_NO"
	ErrDuplicatePhone     ErrCode = "DUPLICATE_PHONE"

	// ─── Survey-specific ───────────────────────────────────────────────
	ErrNoSurveyAvailable    ErrCode = "NO_SURVEY_AVAILABLE"
	ErrSurveyClosed         ErrCode = "SURVEY_NOT_ACCEPTING_RESPONSES"
	ErrDuplicateSubmission  ErrCode = "DUPLICATE_SUBMISSION"
	ErrMissingRequiredField ErrCode = "MISSING_REQUIRED_FIELD"
	ErrInvalidEnumValue     ErrCode = "INVALID_ENUM_VALUE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect student number/phone or password."
	case ErrSessionActive:
		return "You are already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is not valid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "The request payload is not valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."
	case ErrDependencyExists:
		return "The record cannot be deleted because other records still depend on it."
	case ErrDuplicateStudentNo:
		return "A student with this student number already exists."
	case ErrDuplicatePhone:
		return "This phone number is already registered."

	// ─── Survey-specific ───────────────────────────────────────────────
	case ErrNoSurveyAvailable:
		return "No survey is currently available."
	case ErrSurveyClosed:
		return "This survey is not currently accepting responses."
	case ErrDuplicateSubmission:
		return "You have already submitted a response to this survey."
	case ErrMissingRequiredField:
		return "A required field for the selected plan is missing or invalid."
	case ErrInvalidEnumValue:
		return "The submitted value is not one of the accepted options."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
