package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrRefreshInvalid     ErrCode = "REFRESH_TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrNotResourceOwner  ErrCode = "NOT_RESOURCE_OWNER"
	ErrNotEnrolled       ErrCode = "NOT_ENROLLED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Quiz-specific ─────────────────────────────────────────────────
	ErrQuizNotAvailable  ErrCode = "QUIZ_NOT_AVAILABLE"
	ErrQuizNotDraft      ErrCode = "QUIZ_NOT_DRAFT"
	ErrQuizClosed        ErrCode = "QUIZ_ALREADY_CLOSED"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrQuizHasAttempts   ErrCode = "QUIZ_HAS_ATTEMPTS"
	ErrQuestionNotInQuiz ErrCode = "QUESTION_NOT_IN_QUIZ"
	ErrMaxAttempts       ErrCode = "MAX_ATTEMPTS_REACHED"
	ErrAttemptActive     ErrCode = "ATTEMPT_ALREADY_ACTIVE"
	ErrAttemptFinished   ErrCode = "ATTEMPT_NOT_IN_PROGRESS"
	ErrAttemptInProgress ErrCode = "ATTEMPT_STILL_IN_PROGRESS"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrSectionFull      ErrCode = "SECTION_FULL"
	ErrAlreadyEnrolled  ErrCode = "ALREADY_ENROLLED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

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
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrRefreshInvalid:
		return "Refresh token is invalid or has been revoked."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrNotResourceOwner:
		return "You are not the owner of this resource."
	case ErrNotEnrolled:
		return "You are not enrolled in this course section."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Quiz-specific ─────────────────────────────────────────────────
	case ErrQuizNotAvailable:
		return "Quiz is not currently available."
	case ErrQuizNotDraft:
		return "Quiz is not in draft status."
	case ErrQuizClosed:
		return "Quiz is already closed."
	case ErrNoQuestions:
		return "Cannot publish quiz without questions."
	case ErrQuizHasAttempts:
		return "Questions cannot be modified once the quiz has submissions."
	case ErrQuestionNotInQuiz:
		return "Question does not belong to this quiz."
	case ErrMaxAttempts:
		return "Maximum attempts reached."
	case ErrAttemptActive:
		return "An attempt for this quiz is already in progress."
	case ErrAttemptFinished:
		return "Cannot submit answer to completed quiz attempt."
	case ErrAttemptInProgress:
		return "Quiz attempt is still in progress."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrSectionFull:
		return "Course section has reached its maximum number of students."
	case ErrAlreadyEnrolled:
		return "Student is already enrolled in this section."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."

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
