package twitterauth

import "time"

// EventTypeAuthorizationCompleted identifies the event published when a
// session finishes the flow, i.e. when we successfully exchange a verifier
// for an access credential and the session's phase becomes "done"
const EventTypeAuthorizationCompleted = "authorization.completed"

// AuthorizationCompletedEvent is the payload published to the
// twitter-auth-events exchange when a user completes authorization. It
// deliberately carries no credential material; consumers that need to act on
// the new access token should query this service instead
type AuthorizationCompletedEvent struct {
	Type        string    `json:"type"`
	CompletedAt time.Time `json:"completed_at"`
}
