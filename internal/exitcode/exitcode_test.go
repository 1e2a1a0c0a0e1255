package exitcode

import (
	"errors"
	"fmt"
	"testing"

	verrors "github.com/felixgeelhaar/taskvault/internal/errors"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ValidationError", ValidationError, 3},
		{"NotFound", NotFound, 4},
		{"IOError", IOError, 5},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "nil error returns success",
			err:      nil,
			expected: Success,
		},
		{
			name:     "schema mismatch",
			err:      verrors.NewSchemaMismatchError("output", "/age: value must be an integer"),
			expected: ValidationError,
		},
		{
			name:     "wrapped reference error",
			err:      fmt.Errorf("saving output: %w", verrors.NewReferenceError("unknown requirement")),
			expected: ValidationError,
		},
		{
			name:     "constraint error",
			err:      verrors.NewConstraintError("rating out of range"),
			expected: ValidationError,
		},
		{
			name:     "missing file",
			err:      verrors.NewFileNotFoundError("/p/project.json"),
			expected: NotFound,
		},
		{
			name:     "parse failure",
			err:      verrors.NewFileUnmarshalError("/p/task.json", "JSON", errors.New("eof")),
			expected: IOError,
		},
		{
			name:     "already exists",
			err:      verrors.NewAlreadyExistsError("/p"),
			expected: IOError,
		},
		{
			name:     "unknown flag",
			err:      errors.New("unknown flag: --stars"),
			expected: UsageError,
		},
		{
			name:     "unknown command",
			err:      errors.New(`unknown command "frobnicate" for "taskvault"`),
			expected: UsageError,
		},
		{
			name:     "required flag",
			err:      errors.New(`required flag(s) "task" not set`),
			expected: UsageError,
		},
		{
			name:     "argument count",
			err:      errors.New("accepts 1 arg(s), received 0"),
			expected: UsageError,
		},
		{
			name:     "generic error",
			err:      errors.New("something went wrong"),
			expected: GeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineExitCode(tt.err)
			if got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{Success, "Success"},
		{GeneralError, "General error"},
		{UsageError, "Usage error (invalid flags or arguments)"},
		{ValidationError, "Validation failed"},
		{NotFound, "File not found"},
		{IOError, "I/O error"},
		{Interrupted, "Interrupted"},
		{999, "Unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := GetExitCodeDescription(tt.code); got != tt.want {
				t.Errorf("GetExitCodeDescription(%d) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}
