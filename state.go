package twitterauth

import (
	"errors"
	"fmt"
)

// Phase marks how far a single browser session has progressed through the
// three-legged OAuth flow: "start" means we hold a temporary credential and
// are waiting for the user to authorize at Twitter; "done" means the
// temporary credential has been exchanged for a long-lived access credential
type Phase string

const (
	PhaseStart Phase = "start"
	PhaseDone  Phase = "done"
)

// ErrCorruptState indicates that a stored OAuthState failed validation on
// load: the record exists but its fields don't satisfy the invariants for
// its recorded phase, so it can't be trusted to drive the flow
var ErrCorruptState = errors.New("stored oauth state is corrupt")

// OAuthState is the complete record of one session's progress through the
// authorization flow. Absence of a stored OAuthState is itself a valid state
// (the user hasn't started yet); once stored, a record is always written
// whole, with all four credential fields and the phase updated together
type OAuthState struct {
	RequestToken       string `json:"request_token"`
	RequestTokenSecret string `json:"request_token_secret"`
	AccessToken        string `json:"access_token"`
	AccessTokenSecret  string `json:"access_token_secret"`
	Phase              Phase  `json:"phase"`
}

// Validate checks the phase invariants: a "done" record must carry both
// halves of the access credential, and a "start" record must not carry
// either. A violation is reported as ErrCorruptState so that callers can
// distinguish bad stored data from transport errors
func (s *OAuthState) Validate() error {
	switch s.Phase {
	case PhaseStart:
		if s.AccessToken != "" || s.AccessTokenSecret != "" {
			return fmt.Errorf("%w: phase is %q but access credential is set", ErrCorruptState, s.Phase)
		}
	case PhaseDone:
		if s.AccessToken == "" || s.AccessTokenSecret == "" {
			return fmt.Errorf("%w: phase is %q but access credential is incomplete", ErrCorruptState, s.Phase)
		}
	default:
		return fmt.Errorf("%w: unrecognized phase %q", ErrCorruptState, s.Phase)
	}
	return nil
}
