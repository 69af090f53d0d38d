package session

import (
	"context"
	"fmt"

	twitterauth "github.com/golden-vcr/twitter-auth"
)

// Store provides access to the single OAuthState record associated with
// each session ID
type Store interface {
	// Load returns the state stored for the given session, or nil if the
	// session hasn't started the flow yet. Stored data that fails
	// validation is reported via twitterauth.ErrCorruptState
	Load(ctx context.Context, sessionID string) (*twitterauth.OAuthState, error)
	// Save unconditionally overwrites the state stored for the session
	Save(ctx context.Context, sessionID string, state *twitterauth.OAuthState) error
	// Flush deletes all stored session state
	Flush(ctx context.Context) error
}

// validateLoaded applies the OAuthState invariants to a freshly-decoded
// record so that no caller ever sees a half-trusted blob
func validateLoaded(state *twitterauth.OAuthState) (*twitterauth.OAuthState, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate stored session state: %w", err)
	}
	return state, nil
}
