package viserr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// Request identifies the upstream call a failure belongs to.
type Request struct {
	Endpoint       string
	TournamentCode string
	UserAgent      string
	Now            time.Time
}

func (r Request) context() Context {
	ts := r.Now
	if ts.IsZero() {
		ts = time.Now()
	}
	return Context{TournamentCode: r.TournamentCode, Timestamp: ts.UTC(), UserAgent: r.UserAgent}
}

func newError(t Type, status int, req Request, msg string, cause error) *Error {
	sev, recoverable := traits(t)
	return &Error{
		Category: Category{
			Type:        t,
			Severity:    sev,
			Recoverable: recoverable,
			Endpoint:    req.Endpoint,
		},
		StatusCode: status,
		Context:    req.context(),
		Message:    msg,
		cause:      cause,
	}
}

func traits(t Type) (Severity, bool) {
	switch t {
	case TypeNotFound:
		return SeverityLow, false
	case TypeAuthentication:
		return SeverityMedium, true
	case TypeNetwork, TypeServer:
		return SeverityHigh, true
	case TypeData:
		return SeverityMedium, false
	case TypeTimeout:
		return SeverityMedium, true
	default:
		return SeverityMedium, true
	}
}

// Classify maps a transport-level failure to an *Error.
//
// Deadline and net timeouts are upstream call timeouts and classify as
// network. Cancellation of the inbound request classifies as timeout.
func Classify(err error, req Request) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	switch {
	case errors.Is(err, context.Canceled):
		return newError(TypeTimeout, 0, req, "request cancelled before VIS responded", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return newError(TypeNetwork, 0, req, "VIS request timed out", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return newError(TypeNetwork, 0, req, "VIS request timed out", err)
		}
		return newError(TypeNetwork, 0, req, "VIS unreachable: "+err.Error(), err)
	}

	return newError(TypeUnknown, 0, req, err.Error(), err)
}

// FromStatus classifies a non-2xx upstream response.
func FromStatus(status int, req Request) *Error {
	switch {
	case status == http.StatusNotFound:
		return newError(TypeNotFound, status, req, "VIS resource not found", nil)
	case status == http.StatusUnauthorized:
		return newError(TypeAuthentication, status, req, "VIS requires authentication for this resource", nil)
	case status >= http.StatusInternalServerError:
		return newError(TypeServer, status, req, fmt.Sprintf("VIS returned %d %s", status, http.StatusText(status)), nil)
	default:
		return newError(TypeUnknown, status, req, fmt.Sprintf("VIS returned %d %s", status, http.StatusText(status)), nil)
	}
}

// NotFound reports a resource missing from upstream data, such as a code
// absent from the year's listing.
func NotFound(req Request, msg string) *Error {
	return newError(TypeNotFound, http.StatusNotFound, req, msg, nil)
}

// Unauthenticated reports a privilege placeholder returned in place of data.
func Unauthenticated(req Request, msg string) *Error {
	return newError(TypeAuthentication, http.StatusUnauthorized, req, msg, nil)
}

// Data reports an upstream payload that could not be decoded.
func Data(req Request, cause error) *Error {
	return newError(TypeData, 0, req, "malformed VIS payload: "+cause.Error(), cause)
}

// Timeout reports that the inbound request gave up, e.g. while waiting for
// the upstream rate limiter or for VIS to answer.
func Timeout(req Request, cause error) *Error {
	return newError(TypeTimeout, 0, req, "request cancelled while waiting for VIS", cause)
}
