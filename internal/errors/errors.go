// Package errors provides structured error types for vdbctl.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes for vdbctl operations.
const (
	// Setup (environment provisioning) errors
	CodeSetupCreateFailed  = "SETUP_001" // Virtual environment creation failed
	CodeSetupInstallFailed = "SETUP_002" // Dependency installation failed
	CodeSetupTimeout       = "SETUP_003" // Provisioning step exceeded its bound

	// Input errors
	CodeInputMissingSource = "INPUT_001" // No upload sources provided
	CodeInputBadTimestamp  = "INPUT_002" // No valid timestamp ranges
	CodeInputBadManifest   = "INPUT_003" // Upload manifest unreadable or malformed
	CodeInputBadTarget     = "INPUT_004" // Missing or conflicting target selection

	// API errors
	CodeAPIKeyMissing  = "API_001" // Credential variable not set
	CodeAPIAuthFailed  = "API_002" // Service rejected the credential
	CodeAPIRequest     = "API_003" // Request-level failure
	CodeAPIBadResponse = "API_004" // Response body could not be decoded
	CodeAPIUnsupported = "API_005" // Operation not supported for target

	// IO errors
	CodeIOFileNotFound = "IO_001" // File not found
	CodeIOReadError    = "IO_002" // Read error
)

// VdbError is the structured error type for vdbctl operations.
type VdbError struct {
	Code    string         `json:"code"`              // Error code (e.g., "SETUP_001")
	Message string         `json:"message"`           // Human-readable message
	Details map[string]any `json:"details,omitempty"` // Context (path, video_id, etc.)
	Cause   error          `json:"-"`                 // Wrapped error (not serialized)
}

// Error implements the error interface.
func (e *VdbError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *VdbError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *VdbError) WithDetail(key string, value any) *VdbError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *VdbError) WithCause(err error) *VdbError {
	e.Cause = err
	return e
}

// MarshalJSON implements json.Marshaler with cause error message.
func (e *VdbError) MarshalJSON() ([]byte, error) {
	type alias VdbError
	aux := struct {
		*alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		alias: (*alias)(e),
	}
	if e.Cause != nil {
		aux.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(aux)
}

// New creates a new VdbError.
func New(code, message string) *VdbError {
	return &VdbError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new VdbError with formatted message.
func Newf(code, format string, args ...any) *VdbError {
	return &VdbError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with a VdbError.
func Wrap(code, message string, err error) *VdbError {
	return &VdbError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted VdbError.
func Wrapf(code string, err error, format string, args ...any) *VdbError {
	return &VdbError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// --- Setup Errors ---

// SetupCreateFailed creates an error for virtual environment creation failure.
func SetupCreateFailed(path string, err error) *VdbError {
	return Wrap(CodeSetupCreateFailed, "failed to create virtual environment", err).
		WithDetail("path", path)
}

// SetupInstallFailed creates an error for dependency installation failure.
func SetupInstallFailed(manifest string, err error) *VdbError {
	return Wrap(CodeSetupInstallFailed, "dependency installation failed", err).
		WithDetail("manifest", manifest)
}

// SetupTimeout creates an error for a provisioning step that exceeded its bound.
func SetupTimeout(step string) *VdbError {
	return Newf(CodeSetupTimeout, "provisioning step %s timed out", step).
		WithDetail("step", step)
}

// --- Input Errors ---

// InputMissingSource creates an error for an upload run with no sources.
func InputMissingSource() *VdbError {
	return New(CodeInputMissingSource, "no upload sources provided: use --urls, --files, or --manifest")
}

// InputBadTimestamp creates an error for a timestamp list with no valid ranges.
func InputBadTimestamp(raw string) *VdbError {
	return Newf(CodeInputBadTimestamp, "no valid timestamp ranges in %q", raw).
		WithDetail("raw", raw)
}

// InputBadManifest creates an error for an unreadable upload manifest.
func InputBadManifest(path string, err error) *VdbError {
	return Wrap(CodeInputBadManifest, "failed to load upload manifest", err).
		WithDetail("path", path)
}

// InputBadTarget creates an error for a missing or conflicting target selection.
func InputBadTarget(reason string) *VdbError {
	return Newf(CodeInputBadTarget, "invalid target: %s", reason)
}

// --- API Errors ---

// APIKeyMissing creates an error for an unset credential variable.
func APIKeyMissing(envVar string) *VdbError {
	return Newf(CodeAPIKeyMissing, "%s is not set", envVar).
		WithDetail("env_var", envVar)
}

// APIAuthFailed creates an error for a rejected credential.
func APIAuthFailed() *VdbError {
	return New(CodeAPIAuthFailed, "authentication failed: check your API key")
}

// APIRequest creates an error for a request-level failure.
func APIRequest(operation string, err error) *VdbError {
	return Wrapf(CodeAPIRequest, err, "%s request failed", operation).
		WithDetail("operation", operation)
}

// APIBadResponse creates an error for an undecodable response body.
func APIBadResponse(operation string, err error) *VdbError {
	return Wrapf(CodeAPIBadResponse, err, "decoding %s response", operation).
		WithDetail("operation", operation)
}

// APIUnsupported creates an error for an operation the target does not support.
func APIUnsupported(operation, target string) *VdbError {
	return Newf(CodeAPIUnsupported, "%s is not supported for %s", operation, target).
		WithDetail("operation", operation).
		WithDetail("target", target)
}

// --- IO Errors ---

// IOFileNotFound creates an error for a missing file.
func IOFileNotFound(path string) *VdbError {
	return Newf(CodeIOFileNotFound, "file not found: %s", path).
		WithDetail("path", path)
}

// IOReadError creates an error for read failures.
func IOReadError(path string, err error) *VdbError {
	return Wrap(CodeIOReadError, "failed to read file", err).
		WithDetail("path", path)
}

// HasCode checks if an error is a VdbError with the given code.
// It handles wrapped errors by unwrapping to find a VdbError.
func HasCode(err error, code string) bool {
	var verr *VdbError
	if errors.As(err, &verr) {
		return verr.Code == code
	}
	return false
}

// Code returns the error code if err is a VdbError, empty string otherwise.
// It handles wrapped errors by unwrapping to find a VdbError.
func Code(err error) string {
	var verr *VdbError
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ""
}
