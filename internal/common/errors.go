package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Parse and storage failure taxonomy. Document-level failures abort only the
// document they belong to, never a whole batch.
var (
	// ErrUnreadableDocument: the document has no extractable text layer.
	// Scanned image-only PDFs land here; OCR is out of scope.
	ErrUnreadableDocument = errors.New("document has no extractable text layer")
	// ErrCorruptDocument: the bytes are not a readable document at all.
	ErrCorruptDocument = errors.New("document is corrupt or not a PDF")
	// ErrDocumentTooLarge: the configured size ceiling was exceeded. Raised
	// before any extraction work starts.
	ErrDocumentTooLarge = errors.New("document exceeds size limit")
	// ErrStorageUnavailable: the storage collaborator failed during a dedup
	// query or a commit. Commit failures leave the session open for retry.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrSessionClosed: a selection or commit was attempted on a session
	// that is no longer open.
	ErrSessionClosed = errors.New("import session is not open")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
