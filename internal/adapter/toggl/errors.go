package toggl

import (
	"errors"
	"fmt"

	"toggl-cli/internal/domain"
)

// ErrNotLoggedIn is returned before any network activity when no API token is set.
var ErrNotLoggedIn = domain.ErrNotLoggedIn

// APIError is a response with a status other than 200/201.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.Status, e.Body)
}

// NetworkError wraps transport failures (DNS, refused connections, resets).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("Network error: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// IsGatewayFailure reports whether err came back from the remote side,
// either as a bad status or a transport failure.
func IsGatewayFailure(err error) bool {
	var apiErr *APIError
	var netErr *NetworkError
	return errors.As(err, &apiErr) || errors.As(err, &netErr)
}
