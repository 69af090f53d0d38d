package session

import (
	"context"
	"sync"

	twitterauth "github.com/golden-vcr/twitter-auth"
)

// MemoryStore keeps session state in an in-process map. It's the default
// when no Redis address is configured, and it doubles as the store used in
// tests. State does not survive a restart
type MemoryStore struct {
	states map[string]twitterauth.OAuthState
	mu     sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]twitterauth.OAuthState),
	}
}

func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*twitterauth.OAuthState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	// Hand back a copy so the caller can't mutate stored state in place
	return validateLoaded(&state)
}

func (s *MemoryStore) Save(ctx context.Context, sessionID string, state *twitterauth.OAuthState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = *state
	return nil
}

func (s *MemoryStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[string]twitterauth.OAuthState)
	return nil
}
