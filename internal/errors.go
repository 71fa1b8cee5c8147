package internal

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/colony/pkg/config"
	"github.com/dmitrymomot/colony/pkg/route"
	"github.com/dmitrymomot/colony/pkg/session"
)

// Dispatch failure kinds. Match with errors.Is.
var (
	ErrConfiguration  = config.ErrConfiguration
	ErrRouteNotFound  = errors.New("colony: no controller for action")
	ErrMethodNotFound = errors.New("colony: controller has no such method")
	ErrStore          = session.ErrStore
	ErrHandler        = errors.New("colony: handler failed")
)

// HandlerError wraps an error returned by controller code or a recovered
// panic. It matches both ErrHandler and the cause.
type HandlerError struct {
	Err   error
	Panic any
	Stack []byte
}

func newHandlerError(err error) *HandlerError {
	var he *HandlerError
	if errors.As(err, &he) {
		return he
	}
	return &HandlerError{Err: err}
}

func newPanicError(v any) *HandlerError {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	return &HandlerError{Err: err, Panic: v, Stack: debug.Stack()}
}

func (e *HandlerError) Error() string {
	if e.Panic != nil {
		return "panic: " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *HandlerError) Unwrap() []error {
	return []error{ErrHandler, e.Err}
}

// DispatchError is what the failure policy receives and, when exceptions are
// thrown, what Dispatcher.Run returns.
type DispatchError struct {
	Err   error
	Route route.Route
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Route, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Stack returns the captured stack of a panicking handler, if any.
func (e *DispatchError) Stack() []byte {
	var he *HandlerError
	if errors.As(e.Err, &he) {
		return he.Stack
	}
	return nil
}

// Redirect is returned by Context.Redirect and Bag.Trap. The lifecycle saves
// the session, writes the Location header and skips rendering.
type Redirect struct {
	Location string
	Status   int
}

func (r *Redirect) Error() string {
	return fmt.Sprintf("redirect %d to %s", r.Status, r.Location)
}

// AsRedirect extracts a Redirect from err.
func AsRedirect(err error) (*Redirect, bool) {
	var rd *Redirect
	if errors.As(err, &rd) {
		return rd, true
	}
	return nil, false
}

// HTTPError lets a handler pick the status and message of the error page.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Title is an optional title for the error page.
	Title string

	// Code is the HTTP status code.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int {
	return e.Code
}

// StatusText returns the standard text for the status code.
func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption configures an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError creates a new HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Title = title
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

func ErrUnprocessable(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnprocessableEntity, message, opts...)
}

// AsHTTPError extracts the HTTPError from err, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}
	return nil
}

// statusFor picks the error page status.
func statusFor(err error) int {
	if he := AsHTTPError(err); he != nil && he.Code >= 400 {
		return he.Code
	}
	if errors.Is(err, ErrRouteNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
