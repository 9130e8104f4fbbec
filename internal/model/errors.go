package model

import "fmt"

// Non-2xx responses are reported as *httpclient.APIError.

// NetworkError wraps a request that never produced a response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// PayloadError reports a 2xx response whose body lacks the expected fields.
type PayloadError struct {
	Reason string
}

func (e *PayloadError) Error() string {
	return "unexpected payload: " + e.Reason
}

// ValidationError rejects a schedule configuration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
