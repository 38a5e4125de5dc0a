package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Request shape ─────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Sync & grading ────────────────────────────────────────────────
	ErrDuplicate            ErrCode = "DUPLICATE"
	ErrNotFound             ErrCode = "NOT_FOUND"
	ErrStorage              ErrCode = "STORAGE_ERROR"
	ErrSyncPrecondition     ErrCode = "SYNC_PRECONDITION_FAILED"
	ErrChecksumMismatch     ErrCode = "CHECKSUM_MISMATCH"
	ErrNoQuestionsAvailable ErrCode = "NO_QUESTIONS_AVAILABLE"

	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrAdminOnly     ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Rate limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrDuplicate:
		return "This attempt has already been synced."
	case ErrNotFound:
		return "Resource not found."
	case ErrStorage:
		return "A storage error occurred. Please retry."
	case ErrSyncPrecondition:
		return "Sync schema is not ready. Run migrations and try again."
	case ErrChecksumMismatch:
		return "Integrity checksum does not match the submitted payload."
	case ErrNoQuestionsAvailable:
		return "Not enough questions available to build this exam."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrAdminOnly:
		return "This resource is restricted to administrators."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
