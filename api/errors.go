package api

import (
	"errors"
	"fmt"
	"time"
)

// RetryDelay is the fixed pause before an automatic re-fetch.
const RetryDelay = 3 * time.Second

// ErrorClass buckets a failed request for the retry policy. The bounds per
// class are deliberate: a 404 means the endpoint or the configuration is
// wrong and retrying cannot help, a 5xx or an unreachable host is usually a
// cold backend instance that recovers within seconds, and a timeout already
// burned its 30 seconds so it only gets one more try.
type ErrorClass int

const (
	ClassNone ErrorClass = iota
	ClassNotFound
	ClassServer
	ClassUnreachable
	ClassTimeout
	ClassUnauthorized
	ClassOther
)

// RequestError is what every failed call of the Client surfaces: the HTTP
// status if a response arrived (0 otherwise), the server-supplied message
// when the body carried one, and whether the transport timed out. NoResponse
// is set only when the request left the process and nothing came back; a
// marshalling or decoding problem leaves it false.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Timeout    bool
	NoResponse bool
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: request timed out", e.Op)
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Classify maps an error from the Client into its retry class. Unknown
// errors fall through to ClassOther, which is terminal.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}

	var re *RequestError
	if !errors.As(err, &re) {
		return ClassOther
	}

	switch {
	case re.Timeout:
		return ClassTimeout
	case re.NoResponse:
		return ClassUnreachable
	case re.StatusCode == 404:
		return ClassNotFound
	case re.StatusCode == 401:
		return ClassUnauthorized
	case re.StatusCode >= 500:
		return ClassServer
	default:
		// Covers unexpected statuses and local failures such as a response
		// body that does not decode
		return ClassOther
	}
}

// MaxRetries is the automatic re-attempt budget for the class, on top of
// the initial request.
func (c ErrorClass) MaxRetries() int {
	switch c {
	case ClassServer, ClassUnreachable:
		return 2
	case ClassTimeout:
		return 1
	default:
		return 0
	}
}

func (c ErrorClass) Retryable() bool {
	return c.MaxRetries() > 0
}

// Describe returns the terminal, user-facing explanation for the class.
func (c ErrorClass) Describe() string {
	switch c {
	case ClassNotFound:
		return "The endpoint was not found (404). Check the apiBaseUrl setting in config.yaml."
	case ClassServer:
		return "The backend keeps returning an internal error (500). Try again later."
	case ClassUnreachable:
		return "No response from the backend. The server may be down or still waking up from a cold start."
	case ClassTimeout:
		return "The request timed out. The backend is too slow to respond right now."
	case ClassUnauthorized:
		return "Not authorized. Your session may have expired, please log in again."
	default:
		return "The request failed unexpectedly."
	}
}
