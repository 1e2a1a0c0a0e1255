package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/taskvault/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates an entity was rejected by validation
	ValidationError = 3

	// NotFound indicates a referenced file does not exist
	NotFound = 4

	// IOError indicates a filesystem or encoding failure
	IOError = 5

	// Interrupted indicates the command was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode maps an error to an exit code. Coded errors are mapped by
// code; cobra usage errors are recognized by message.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if errors.IsValidation(err) {
		return ValidationError
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodeFileNotFound:
		return NotFound
	case errors.ErrCodeFileReadFailed, errors.ErrCodeFileWriteFailed, errors.ErrCodeDirectoryFailed,
		errors.ErrCodeFileUnmarshal, errors.ErrCodeFileMarshal, errors.ErrCodeAlreadyExists:
		return IOError
	}

	errMsg := strings.ToLower(err.Error())

	// Usage errors
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "accepts ") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid argument") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Validation failed"
	case NotFound:
		return "File not found"
	case IOError:
		return "I/O error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
