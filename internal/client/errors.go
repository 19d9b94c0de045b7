package client

// Error taxonomy for the EEN API surface. Authentication and resolution
// failures are fatal to the run; a TransportError during a log pull is
// isolated to its category. Match with errors.As.

// AuthError covers bad credentials, missing/expired tokens, and 403 responses.
type AuthError struct {
	Msg string
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError means the device identifier resolved to nothing.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// TransportError covers network failures and unexpected response shapes.
type TransportError struct {
	Msg        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError means the caller supplied an out-of-range selection.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
