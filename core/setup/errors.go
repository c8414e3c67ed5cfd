package setup

import (
	"fmt"

	"github.com/pkg/errors"
)

// GenericFailureMessage is shown when the backend gives no usable message.
const GenericFailureMessage = "Something went wrong, please try again."

var (
	ErrInvalidStage         = errors.New("invalid setup stage")
	ErrInconsistentProgress = errors.New("inconsistent setup progress")
	ErrBackwardAdvance      = errors.New("cannot advance to an earlier stage")
	ErrStageSkipped         = errors.New("cannot skip a setup stage")
	ErrRetreatNotAllowed    = errors.New("cannot go back from this stage")
	ErrNoSession            = errors.New("no active session")
	ErrSubmitPending        = errors.New("a submission is already in progress")
	ErrViewClosed           = errors.New("view is no longer displayed")
	ErrWrongStage           = errors.New("wizard is not at this stage")
)

// ServerError is returned by a Remote when the backend answers with a non-success status.
type ServerError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (err *ServerError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("server error: status %d", err.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", err.Status, err.Message)
}

// IsAuthFailure reports whether err means the session token was rejected.
func IsAuthFailure(err error) bool {
	if errors.Cause(err) == ErrNoSession {
		return true
	}
	if sErr, ok := errors.Cause(err).(*ServerError); ok {
		return sErr.Status == 401
	}
	return false
}

// failureMessage returns the message to show the user for a failed create request.
func failureMessage(err error) string {
	if sErr, ok := errors.Cause(err).(*ServerError); ok && sErr.Message != "" {
		return sErr.Message
	}
	return GenericFailureMessage
}
