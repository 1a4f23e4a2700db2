// Package errors provides standardized error handling for imgbench.
// It defines the error kinds surfaced by the workbench, constructors for the
// file, config and transport flavours, and predicates used by the front-ends
// to turn any failure into a user-facing message.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	NotAnImage
	PreviewFailed
	// Config error kinds
	InvalidConfig
	// Workbench error kinds
	NoFileSelected
	NoSelection
	UploadInFlight
	PickCancelled
	StalePreview
	// Transport error kinds
	ServerUnreachable
	DecodeFailed
)

var kindNames = map[ErrorKind]string{
	Unknown:           "unknown",
	FileNotFound:      "file_not_found",
	FileAccessDenied:  "file_access_denied",
	InvalidPath:       "invalid_path",
	NotAnImage:        "not_an_image",
	PreviewFailed:     "preview_failed",
	InvalidConfig:     "invalid_config",
	NoFileSelected:    "no_file_selected",
	NoSelection:       "no_selection",
	UploadInFlight:    "upload_in_flight",
	PickCancelled:     "pick_cancelled",
	StalePreview:      "stale_preview",
	ServerUnreachable: "server_unreachable",
	DecodeFailed:      "decode_failed",
}

// String returns the snake_case name of the kind, used as a log field.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrNoFileSelected    = &ApplicationError{msg: "no image selected", kind: NoFileSelected}
	ErrNoSelection       = &ApplicationError{msg: "no gallery image selected", kind: NoSelection}
	ErrUploadInFlight    = &ApplicationError{msg: "an upload is already in progress", kind: UploadInFlight}
	ErrPickCancelled     = &ApplicationError{msg: "file selection cancelled", kind: PickCancelled}
	ErrStalePreview      = &ApplicationError{msg: "preview belongs to a replaced file", kind: StalePreview}
	ErrServerUnreachable = &ApplicationError{msg: "server unreachable", kind: ServerUnreachable}
	ErrDecode            = &ApplicationError{msg: "invalid response body", kind: DecodeFailed}
	ErrNotAnImage        = NewFileError("not an image", "", NotAnImage, nil)
	ErrInvalidConfig     = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

type kinded interface {
	Kind() ErrorKind
}

// Is matches any error of the same non-Unknown kind, so a wrapped
// TransportError satisfies errors.Is(err, ErrServerUnreachable).
// A DecodeFailed error also matches ServerUnreachable.
func (e *ApplicationError) Is(target error) bool {
	t, ok := target.(kinded)
	if !ok || e.kind == Unknown {
		return false
	}
	switch t.Kind() {
	case e.kind:
		return true
	case ServerUnreachable:
		return e.kind == DecodeFailed
	}
	return false
}

// FileError represents errors related to local file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// TransportError represents a failed exchange with the image server.
type TransportError struct {
	ApplicationError
	endpoint string
	status   int
	detail   string
}

// NewTransportError creates a transport error for the given endpoint.
// kind must be ServerUnreachable or DecodeFailed.
func NewTransportError(msg, endpoint string, kind ErrorKind, err error) *TransportError {
	return &TransportError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		endpoint: endpoint,
	}
}

// WithStatus records the HTTP status the server answered with.
func (e *TransportError) WithStatus(status int) *TransportError {
	e.status = status
	return e
}

// WithDetail records the server's own explanation of a rejected request.
func (e *TransportError) WithDetail(detail string) *TransportError {
	e.detail = detail
	return e
}

// Error returns the transport error message
func (e *TransportError) Error() string {
	prefix := e.msg
	if e.endpoint != "" {
		prefix = fmt.Sprintf("%s: %s", e.msg, e.endpoint)
	}
	if e.status != 0 {
		prefix = fmt.Sprintf("%s: status %d", prefix, e.status)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.err)
	}
	return prefix
}

// Endpoint returns the URL the failing request was sent to
func (e *TransportError) Endpoint() string {
	return e.endpoint
}

// Status returns the HTTP status code, or 0 when no response was received
func (e *TransportError) Status() int {
	return e.status
}

// Detail returns the text the server answered a rejected request with.
func (e *TransportError) Detail() string {
	return e.detail
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// NewKind creates a new error of the given kind
func NewKind(kind ErrorKind, msg string, err error) error {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: kind,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first kinded error in err's chain
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsNoFileSelected checks if the error is caused by a missing local selection
func IsNoFileSelected(err error) bool {
	return errors.Is(err, ErrNoFileSelected)
}

// IsNoSelection checks if the error is caused by a missing gallery selection
func IsNoSelection(err error) bool {
	return errors.Is(err, ErrNoSelection)
}

// IsServerUnreachable checks if the error is a transport or decoding failure
func IsServerUnreachable(err error) bool {
	return errors.Is(err, ErrServerUnreachable)
}

// IsDecodeError checks if the error is a response decoding failure
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsNotAnImage checks if a picked file was rejected for its media type
func IsNotAnImage(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == NotAnImage
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// UserMessage maps an error onto the short notice shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case NoFileSelected:
		return "Please pick an image first."
	case NoSelection:
		return "Please select an image from the gallery first."
	case UploadInFlight:
		return "An upload is already in progress."
	case ServerUnreachable, DecodeFailed:
		var te *TransportError
		if errors.As(err, &te) && te.status != 0 && te.detail != "" {
			return fmt.Sprintf("The image server rejected the request (status %d): %s", te.status, te.detail)
		}
		return "Could not reach the image server (server error)."
	case NotAnImage:
		return "Only image files can be selected."
	case FileNotFound:
		return "The selected file no longer exists."
	case PreviewFailed:
		return "The preview could not be rendered; you can still upload the file."
	}
	return err.Error()
}
