package rapi

import (
	"errors"
	"fmt"
)

// TransportError indicates the request never produced a usable response:
// connection refused, TLS failure, timeout, or an unreadable body.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned for a 404 response. Callers observing instances
// treat it as a first-class "absent" outcome rather than a failure.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %s not found", e.Path)
}

// RemoteError carries a non-2xx response to an API call, including the
// explanation text the server supplied.
type RemoteError struct {
	StatusCode int
	Method     string
	Path       string
	Explain    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Explain)
}

// JobFailedError is returned when an awaited job terminates in a status
// other than success.
type JobFailedError struct {
	ID     JobID
	Status JobStatus
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %d terminated with status %q", e.ID, e.Status)
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsJobFailed checks if an error indicates a job terminated unsuccessfully.
func IsJobFailed(err error) bool {
	var jf *JobFailedError
	return errors.As(err, &jf)
}
