package vis

import "errors"

// Sentinel kinds for client construction errors.
var (
	ErrUnknownTransport = errors.New("unknown vis transport")
	ErrProxyURLRequired = errors.New("proxy transport requires a proxy url")
	ErrPlaceholder      = errors.New("vis returned a placeholder object")
)
