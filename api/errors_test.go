package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ClassNone},
		{"not found", &RequestError{Op: "list", StatusCode: 404}, ClassNotFound},
		{"server error", &RequestError{Op: "list", StatusCode: 500}, ClassServer},
		{"bad gateway", &RequestError{Op: "list", StatusCode: 502}, ClassServer},
		{"unauthorized", &RequestError{Op: "me", StatusCode: 401}, ClassUnauthorized},
		{"no response", &RequestError{Op: "list", NoResponse: true, Err: errors.New("connection refused")}, ClassUnreachable},
		{"timeout", &RequestError{Op: "list", Timeout: true}, ClassTimeout},
		{"other status", &RequestError{Op: "list", StatusCode: 418}, ClassOther},
		{"local failure", &RequestError{Op: "list", Err: errors.New("decoding response: unexpected EOF")}, ClassOther},
		{"foreign error", errors.New("something else"), ClassOther},
	}

	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.expected {
			t.Errorf("%s: expected class %d, got %d", tt.name, tt.expected, got)
		}
	}
}

func TestClassifyWrappedError(t *testing.T) {
	inner := &RequestError{Op: "list", StatusCode: 500}
	wrapped := fmt.Errorf("fetching: %w", inner)

	if got := Classify(wrapped); got != ClassServer {
		t.Errorf("Expected ClassServer for wrapped error, got %d", got)
	}
}

func TestRetryBudgets(t *testing.T) {
	if ClassServer.MaxRetries() != 2 {
		t.Errorf("Expected 2 retries for ClassServer, got %d", ClassServer.MaxRetries())
	}

	if ClassUnreachable.MaxRetries() != 2 {
		t.Errorf("Expected 2 retries for ClassUnreachable, got %d", ClassUnreachable.MaxRetries())
	}

	if ClassTimeout.MaxRetries() != 1 {
		t.Errorf("Expected 1 retry for ClassTimeout, got %d", ClassTimeout.MaxRetries())
	}

	for _, c := range []ErrorClass{ClassNotFound, ClassUnauthorized, ClassOther, ClassNone} {
		if c.Retryable() {
			t.Errorf("Expected class %d to be terminal", c)
		}
	}
}

func TestDescribeNeverEmpty(t *testing.T) {
	classes := []ErrorClass{
		ClassNotFound, ClassServer, ClassUnreachable,
		ClassTimeout, ClassUnauthorized, ClassOther,
	}

	for _, c := range classes {
		if c.Describe() == "" {
			t.Errorf("Expected non-empty description for class %d", c)
		}
	}
}

func TestRequestErrorMessage(t *testing.T) {
	err := &RequestError{Op: "login", StatusCode: 401, Message: "Invalid credentials"}

	if err.Error() != "login: Invalid credentials (status 401)" {
		t.Errorf("Unexpected error string: %s", err.Error())
	}
}
