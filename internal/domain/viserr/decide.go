package viserr

import (
	"net/http"
	"time"
)

// RetryAfter is the wait suggested to clients for network and server failures.
const RetryAfter = 60 * time.Second

// Decision is how the HTTP layer answers a failed request.
type Decision struct {
	// Status is the HTTP status code to send.
	Status int
	// Retryable tells the client whether retrying may help.
	Retryable bool
	// RetryAfter is zero when no Retry-After header should be sent.
	RetryAfter time.Duration
	// Degraded is set when the response is a 200 carrying empty data.
	Degraded bool
}

// Decide applies the route decision table. Rules are evaluated in order.
func Decide(e *Error) Decision {
	if e == nil {
		return Decision{Status: http.StatusOK}
	}
	status := e.StatusCode
	switch {
	case status == http.StatusNotFound:
		return Decision{Status: http.StatusNotFound, Retryable: false}
	case status == http.StatusUnauthorized:
		return Decision{Status: http.StatusOK, Retryable: true, Degraded: true}
	case e.Category.Type == TypeNetwork || status >= http.StatusInternalServerError:
		return Decision{Status: orInternal(status), Retryable: true, RetryAfter: RetryAfter}
	default:
		return Decision{Status: orInternal(status), Retryable: e.Category.Recoverable}
	}
}

func orInternal(status int) int {
	if status == 0 {
		return http.StatusInternalServerError
	}
	return status
}

// UserMessage is the text a viewer sees for a failure.
func UserMessage(e *Error) string {
	if e == nil {
		return ""
	}
	switch e.Category.Type {
	case TypeNotFound:
		return "We couldn't find what you were looking for. Check the tournament code and try again."
	case TypeAuthentication:
		return "Some tournament data is not publicly available yet. Showing what we have."
	case TypeNetwork:
		return "We're having trouble reaching the tournament data service. Please try again in a minute."
	case TypeServer:
		return "The tournament data service is having problems. Please try again in a minute."
	case TypeData:
		return "The tournament data we received looks incomplete."
	case TypeTimeout:
		return "The request took too long. Please retry."
	default:
		return "Something went wrong while loading tournament data. Please try again."
	}
}
