package client

import "fmt"

// TransportError indicates that a request could not be completed at the connection level,
// as opposed to the service returning an error status.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is returned by the strict request methods when the service responds with an
// error status. The message includes both the status code and the raw response body, so a
// test that only needs to know "an error happened" still gets the details in its output.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}
