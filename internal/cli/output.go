package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/diary/internal/archive"
	"github.com/roach88/diary/internal/input"
	"github.com/roach88/diary/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Refused: invalid input, wrong backup, phrase not confirmed
	ExitCommandError = 2 // Command error (no archive, unknown uid, I/O failure, etc.)
)

// Error codes reported by the CLI. Input validation codes (E2xx) come from
// the input package.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeNotFound         = "E002" // Unknown entry or MOC uid
	ErrCodeNoArchive        = "E003" // No archive in the home directory
	ErrCodeArchiveExists    = "E004" // Init over an existing archive
	ErrCodeIdentityMismatch = "E005" // Backup of another archive
	ErrCodeVersionRegress   = "E006" // Backup older than the archive
	ErrCodeInvalidBackup    = "E007" // Not a backup file
	ErrCodeNoBackup         = "E008" // Rollback without a commit backup
	ErrCodeConfirmation     = "E009" // Confirmation phrase not typed
	ErrCodeIO               = "E010" // Store or filesystem failure
	ErrCodeItverExhausted   = "E011" // Too many commits
)

// Hint is printed after every failed command.
const Hint = "if the archive is left corrupted, run `diary rollback` to restore the last commit backup, or `diary load-backup <file>`"

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// classify maps a domain error to its error code and exit code.
func classify(err error) (string, int) {
	var verrs input.ValidationErrors
	var ioErr *store.IOError
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return verrs[0].Code, ExitFailure
	case errors.Is(err, archive.ErrIdentityMismatch):
		return ErrCodeIdentityMismatch, ExitFailure
	case errors.Is(err, archive.ErrVersionRegression):
		return ErrCodeVersionRegress, ExitFailure
	case errors.Is(err, archive.ErrInvalidBackup):
		return ErrCodeInvalidBackup, ExitFailure
	case errors.Is(err, archive.ErrConfirmation):
		return ErrCodeConfirmation, ExitFailure
	case errors.Is(err, archive.ErrNotFound):
		return ErrCodeNotFound, ExitCommandError
	case errors.Is(err, archive.ErrNoArchive):
		return ErrCodeNoArchive, ExitCommandError
	case errors.Is(err, archive.ErrArchiveExists):
		return ErrCodeArchiveExists, ExitCommandError
	case errors.Is(err, archive.ErrNoBackup):
		return ErrCodeNoBackup, ExitCommandError
	case errors.Is(err, archive.ErrItverExhausted):
		return ErrCodeItverExhausted, ExitCommandError
	case errors.As(err, &ioErr):
		return ErrCodeIO, ExitCommandError
	default:
		return ErrCodeGeneric, ExitCommandError
	}
}

// fail reports err in the configured format, prints the recovery hint and
// returns the matching ExitError.
func fail(f *OutputFormatter, err error) error {
	code, exit := classify(err)

	var details interface{}
	var verrs input.ValidationErrors
	if errors.As(err, &verrs) {
		details = verrs
	}
	_ = f.Error(code, err.Error(), details)
	fmt.Fprintln(f.GetErrWriter(), "hint:", Hint)
	return WrapExitError(exit, code, err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E201", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt, so results implement fmt.Stringer.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
