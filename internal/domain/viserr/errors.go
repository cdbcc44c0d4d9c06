// Package viserr classifies upstream VIS failures into a stable error taxonomy
// and maps that taxonomy to HTTP response decisions.
package viserr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type names a failure category.
type Type string

// Failure categories.
const (
	TypeNotFound       Type = "not_found"
	TypeAuthentication Type = "authentication"
	TypeNetwork        Type = "network"
	TypeServer         Type = "server"
	TypeData           Type = "data"
	TypeTimeout        Type = "timeout"
	TypeUnknown        Type = "unknown"
)

// Severity ranks how visible a failure should be to operators.
type Severity string

// Severities.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Sentinel kinds. *Error matches the sentinel of its category with errors.Is.
var (
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication required")
	ErrNetwork        = errors.New("network failure")
	ErrServer         = errors.New("upstream server error")
	ErrData           = errors.New("invalid upstream data")
	ErrTimeout        = errors.New("request timed out")
	ErrUnknown        = errors.New("unknown failure")
)

var sentinels = map[Type]error{
	TypeNotFound:       ErrNotFound,
	TypeAuthentication: ErrAuthentication,
	TypeNetwork:        ErrNetwork,
	TypeServer:         ErrServer,
	TypeData:           ErrData,
	TypeTimeout:        ErrTimeout,
	TypeUnknown:        ErrUnknown,
}

// Category carries the classification of a failure.
type Category struct {
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	Recoverable bool     `json:"recoverable"`
	Endpoint    string   `json:"endpoint"`
}

// Context describes the request during which a failure happened.
type Context struct {
	TournamentCode string    `json:"tournamentCode"`
	Timestamp      time.Time `json:"timestamp"`
	UserAgent      string    `json:"userAgent,omitempty"`
}

// Error is the single failure shape handed to the cache and HTTP layers.
// StatusCode is zero when no upstream status is known.
type Error struct {
	Category    Category `json:"category"`
	StatusCode  int      `json:"statusCode,omitempty"`
	Context     Context  `json:"context"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	Causes      []*Error `json:"causes,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d): %s", e.Category.Endpoint, e.Category.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category.Endpoint, e.Category.Type, e.Message)
}

// Unwrap exposes the underlying transport or decoding error, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the sentinel for e's category.
func (e *Error) Is(target error) bool {
	return sentinels[e.Category.Type] == target
}

// WithTournamentCode returns a copy of e bound to code. An existing code is kept.
func (e *Error) WithTournamentCode(code string) *Error {
	if e == nil || e.Context.TournamentCode != "" {
		return e
	}
	cp := *e
	cp.Context.TournamentCode = code
	return &cp
}

// Aggregate combines the failures of an ordered list of attempts. The last
// failure decides the category; every failure is kept in Causes.
func Aggregate(errs ...*Error) *Error {
	var kept []*Error
	for _, e := range errs {
		if e != nil {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	last := *kept[len(kept)-1]
	msgs := make([]string, 0, len(kept))
	for _, e := range kept {
		msgs = append(msgs, e.Message)
	}
	last.Message = strings.Join(msgs, "; ")
	last.Causes = kept
	return &last
}

// From returns err as an *Error, classifying it as unknown when it is not one.
func From(err error, req Request) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Classify(err, req)
}
