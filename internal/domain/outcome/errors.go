package outcome

import "errors"

var (
	errNilFailure   = errors.New("failure result without an error")
	errNoStrategies = errors.New("no strategies to run")
)
