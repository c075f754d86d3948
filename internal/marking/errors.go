package marking

import "fmt"

// RemoteEvaluationError is a non-2xx answer from the marking service.
type RemoteEvaluationError struct {
	StatusCode int
	Body       string
}

func (e *RemoteEvaluationError) Error() string {
	return fmt.Sprintf("marking service returned %d: %s", e.StatusCode, e.Body)
}

// TransportError means no usable response was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "marking service unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
