package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/scan-io-git/flaw-importer/pkg/shared"
)

// Kind classifies an import failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration means a required option is missing. No remote calls were made.
	KindConfiguration
	// KindInput means the results file is missing, unparseable or of unknown shape.
	KindInput
	// KindProvisioning means a label could not be created for a reason other than a conflict.
	KindProvisioning
	// KindListing means existing issues could not be listed.
	KindListing
	// KindRateLimit means the tracker rejected an issue because of rate limiting or abuse detection.
	KindRateLimit
	// KindSubmission means the tracker rejected an issue for any other reason.
	KindSubmission
)

// String returns the human-readable string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindInput:
		return "input"
	case KindProvisioning:
		return "provisioning"
	case KindListing:
		return "listing"
	case KindRateLimit:
		return "rate-limit"
	case KindSubmission:
		return "submission"
	default:
		return "unknown"
	}
}

// ImportError is the tagged error returned by the importer. Status carries
// the remote HTTP status when the failure came from the tracker.
type ImportError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// New builds an ImportError without an underlying cause.
func New(kind Kind, format string, args ...interface{}) *ImportError {
	return &ImportError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an ImportError around err.
func Wrap(kind Kind, status int, err error, format string, args ...interface{}) *ImportError {
	return &ImportError{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of the first ImportError in err's chain.
func KindOf(err error) Kind {
	var ie *ImportError
	if stderrors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}

// ExitCode maps an error kind to the process exit code: argument and input
// problems exit with 1, remote failures with 2.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindConfiguration, KindInput:
		return 1
	default:
		return 2
	}
}

// CommandError represents an error that occurred during command execution, storing relevant results.
type CommandError struct {
	ExitCode    int
	CommonError string
	Result      shared.GenericLaunchesResult
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError instance, encapsulating args, result, and the error message.
func NewCommandError(args interface{}, result interface{}, err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Result: shared.GenericLaunchesResult{
			Launches: []shared.GenericResult{
				{
					Args:    args,
					Result:  result,
					Status:  "FAILED",
					Message: err.Error(),
				},
			},
		},
	}
}
