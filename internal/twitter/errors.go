package twitter

import (
	"errors"
	"fmt"
)

// ErrExchangeFailed indicates that the access-token exchange either failed
// outright or produced a response without both token fields: we refuse to
// persist an empty or partial access credential
var ErrExchangeFailed = errors.New("failed to exchange verifier for access credential")

// APIError captures a non-200 outcome from a Twitter API call so that the
// caller can render the status and body to the user. It's returned as an
// ordinary error value rather than stashed in shared state, so repeated
// calls can't cross-contaminate each other's error context
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("got response %d from Twitter API: %s", e.StatusCode, e.Body)
}
