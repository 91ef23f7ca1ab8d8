package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/diary/internal/archive"
	"github.com/roach88/diary/internal/input"
	"github.com/roach88/diary/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E001", "commit failed", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "E001", resp.Error.Code)
	assert.Equal(t, "commit failed", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "entry.toml", "line": "42"}
	err := formatter.Error("E002", "invalid date", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Archive sorted")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Archive sorted")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E001", "commit failed", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "commit failed")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "entry.toml"}
	err := formatter.Error("E001", "commit failed", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		wantLog  bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "entry.toml")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Processing entry.toml")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "E201",
		Message: "validation failed",
		Details: []string{"missing field: title"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "E201", decoded.Code)
	assert.Equal(t, "validation failed", decoded.Message)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"validation", input.ValidationErrors{{Code: input.ErrCodeInvalidDate}}, input.ErrCodeInvalidDate, ExitFailure},
		{"identity", fmt.Errorf("load: %w", archive.ErrIdentityMismatch), ErrCodeIdentityMismatch, ExitFailure},
		{"regression", archive.ErrVersionRegression, ErrCodeVersionRegress, ExitFailure},
		{"invalid backup", archive.ErrInvalidBackup, ErrCodeInvalidBackup, ExitFailure},
		{"confirmation", archive.ErrConfirmation, ErrCodeConfirmation, ExitFailure},
		{"not found", fmt.Errorf("entry %q: %w", "x", archive.ErrNotFound), ErrCodeNotFound, ExitCommandError},
		{"no archive", archive.ErrNoArchive, ErrCodeNoArchive, ExitCommandError},
		{"exists", archive.ErrArchiveExists, ErrCodeArchiveExists, ExitCommandError},
		{"no backup", archive.ErrNoBackup, ErrCodeNoBackup, ExitCommandError},
		{"itver", archive.ErrItverExhausted, ErrCodeItverExhausted, ExitCommandError},
		{"io", &store.IOError{Op: "read", Path: "p", Err: errors.New("disk")}, ErrCodeIO, ExitCommandError},
		{"other", errors.New("boom"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestFail_ReportsAndWraps(t *testing.T) {
	buf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, ErrWriter: errBuf}

	err := fail(formatter, archive.ErrNoBackup)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, archive.ErrNoBackup)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeNoBackup, resp.Error.Code)
	assert.Equal(t, "hint: "+Hint+"\n", errBuf.String())

	errBuf.Reset()
	err = fail(formatter, archive.ErrIdentityMismatch)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errBuf.String(), Hint)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", WrapExitError(ExitFailure, "E201", errors.New("x")))))
}
