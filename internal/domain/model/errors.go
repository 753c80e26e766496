package model

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

type ErrorCode string

const (
	ErrNoDevice       ErrorCode = "ERR_NO_DEVICE"
	ErrNotBulb        ErrorCode = "ERR_NOT_BULB"
	ErrDeviceNotFound ErrorCode = "ERR_DEVICE_NOT_FOUND"
	ErrCoap           ErrorCode = "ERR_COAP"
	ErrInvalidJSON    ErrorCode = "ERR_INVALID_JSON"
)

// MaxStackLines bounds the stack carried by transport errors.
const MaxStackLines = 10

var (
	ErrDiscoveryFailed = errors.New("gateway discovery failed")
	ErrPairingFailed   = errors.New("gateway pairing failed")
	ErrConnectFailed   = errors.New("gateway connect failed")
	ErrNotConnected    = errors.New("gateway not connected")
	ErrDeviceMissing   = errors.New("device not found")
)

// APIError is the JSON error body returned by the HTTP API.
type APIError struct {
	Status  int       `json:"-"`
	Code    ErrorCode `json:"err"`
	Message string    `json:"message"`
	Stack   []string  `json:"stack,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(code ErrorCode, msg string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: msg}
}

// TransportError is a failure reported by the gateway transport.
type TransportError struct {
	Op    string
	Err   error
	Stack []string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err and records the caller's stack.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err, Stack: callerStack(2)}
}

// AsTransportError returns err as a TransportError, wrapping it when it is not
// one already.
func AsTransportError(op string, err error) *TransportError {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Op: op, Err: err, Stack: callerStack(2)}
}

// ToAPIError converts the failure into an ERR_COAP response body.
func (e *TransportError) ToAPIError() *APIError {
	stack := e.Stack
	if len(stack) > MaxStackLines {
		stack = stack[:MaxStackLines]
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    ErrCoap,
		Message: e.Error(),
		Stack:   stack,
	}
}

func callerStack(skip int) []string {
	pcs := make([]uintptr, MaxStackLines)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])
	lines := make([]string, 0, n)
	for {
		f, more := frames.Next()
		lines = append(lines, fmt.Sprintf("at %s (%s:%d)", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	return lines
}
