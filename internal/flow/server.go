package flow

import (
	"context"
	"errors"
	"net/http"

	"github.com/golden-vcr/auth"
	"github.com/golden-vcr/server-common/entry"
	"github.com/gorilla/mux"

	twitterauth "github.com/golden-vcr/twitter-auth"
	"github.com/golden-vcr/twitter-auth/internal/session"
	"github.com/golden-vcr/twitter-auth/internal/twitter"
)

// TwitterClient represents the subset of Twitter client functionality used
// to drive a session through the authorization flow
type TwitterClient interface {
	RequestTemporaryCredential() (string, string, error)
	AuthorizationURL(requestToken string) (string, error)
	ExchangeVerifier(requestToken, requestSecret, verifier string) (string, string, error)
	VerifyCredentials(ctx context.Context, accessToken, accessSecret string) (string, error)
}

// EventProducer notifies downstream consumers that a session has completed
// the flow
type EventProducer interface {
	PublishAuthorizationCompleted(ctx context.Context) error
}

type Server struct {
	store    session.Store
	twitter  TwitterClient
	producer EventProducer
}

func NewServer(store session.Store, twitterClient TwitterClient, producer EventProducer) *Server {
	return &Server{
		store:    store,
		twitter:  twitterClient,
		producer: producer,
	}
}

func (s *Server) RegisterRoutes(r *mux.Router) {
	r.Path("/login").Methods("GET").HandlerFunc(s.handleLogin)
}

// RegisterAdminRoutes installs DELETE /sessions, which flushes all stored
// session state: it's the recovery path for sessions poisoned by a corrupt
// record or an unusable temporary credential, so it requires
// broadcaster-level access
func (s *Server) RegisterAdminRoutes(c auth.Client, r *mux.Router) {
	sessions := r.Path("/sessions").Subrouter()
	sessions.Use(func(next http.Handler) http.Handler {
		return auth.RequireAccess(c, auth.RoleBroadcaster, next)
	})
	sessions.Methods("DELETE").HandlerFunc(s.handleDeleteSessions)
}

// handleLogin (GET /login) advances the caller's session through the flow
// and renders the page appropriate to the resulting phase. Twitter's
// post-authorization redirect lands here too, carrying oauth_token and
// oauth_verifier query parameters
func (s *Server) handleLogin(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)
	ctx := req.Context()

	sessionID := session.GetOrCreateID(res, req)
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, twitterauth.ErrCorruptState) {
			logger.Error("Stored session state is corrupt", "error", err)
			http.Error(res, "stored session state is corrupt", http.StatusInternalServerError)
			return
		}
		logger.Error("Failed to load session state", "error", err)
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	// A session with no stored state is starting the flow: obtain a
	// temporary credential and persist the start-phase record
	if state == nil {
		requestToken, requestSecret, err := s.twitter.RequestTemporaryCredential()
		if err != nil {
			// Deliberately not fatal: we persist whatever we got (possibly
			// empty token fields) and render the authorize link regardless.
			// The link won't work, but the session stays recoverable via
			// DELETE /sessions or store expiry
			logger.Error("Failed to obtain temporary credential; proceeding with empty token fields", "error", err)
		}
		state = &twitterauth.OAuthState{
			RequestToken:       requestToken,
			RequestTokenSecret: requestSecret,
			Phase:              twitterauth.PhaseStart,
		}
		if err := s.store.Save(ctx, sessionID, state); err != nil {
			logger.Error("Failed to persist session state", "error", err)
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
		logger.Info("Started authorization flow", "sessionId", sessionID)
	}

	// If Twitter has redirected the user back to us with a verifier and we
	// haven't completed the exchange yet, trade the temporary credential for
	// an access credential now
	verifier := req.URL.Query().Get("oauth_verifier")
	if verifier != "" && state.Phase == twitterauth.PhaseStart && state.AccessToken == "" {
		callbackToken := req.URL.Query().Get("oauth_token")
		if callbackToken != state.RequestToken {
			logger.Error("Ignoring callback carrying an unrecognized request token", "callbackToken", callbackToken)
		} else {
			accessToken, accessSecret, err := s.twitter.ExchangeVerifier(state.RequestToken, state.RequestTokenSecret, verifier)
			if err != nil {
				// Nothing is persisted on a failed exchange: the session
				// stays in the start phase and the user can re-authorize
				logger.Error("Failed to exchange verifier for access credential", "error", err)
				http.Error(res, "failed to exchange verifier for access credential", http.StatusBadGateway)
				return
			}
			state.AccessToken = accessToken
			state.AccessTokenSecret = accessSecret
			state.Phase = twitterauth.PhaseDone
			if err := s.store.Save(ctx, sessionID, state); err != nil {
				logger.Error("Failed to persist session state", "error", err)
				http.Error(res, err.Error(), http.StatusInternalServerError)
				return
			}
			logger.Info("Completed authorization flow", "sessionId", sessionID)

			if err := s.producer.PublishAuthorizationCompleted(ctx); err != nil {
				logger.Error("Failed to publish authorization-completed event", "error", err)
			}
		}
	}

	// Render exactly one of three pages based on where the session ended up
	if state.Phase == twitterauth.PhaseDone {
		displayName, err := s.twitter.VerifyCredentials(ctx, state.AccessToken, state.AccessTokenSecret)
		if err != nil {
			var apiErr *twitter.APIError
			if errors.As(err, &apiErr) {
				logger.Error("Twitter API call failed", "statusCode", apiErr.StatusCode, "body", apiErr.Body)
				renderFailure(res, apiErr)
				return
			}
			logger.Error("Failed to verify credentials", "error", err)
			http.Error(res, err.Error(), http.StatusInternalServerError)
			return
		}
		renderSuccess(res, displayName)
		return
	}

	authorizationURL, err := s.twitter.AuthorizationURL(state.RequestToken)
	if err != nil {
		logger.Error("Failed to build authorization URL", "error", err)
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	renderAuthorizeLink(res, authorizationURL)
}

// handleDeleteSessions (DELETE /sessions) clears all stored session state
func (s *Server) handleDeleteSessions(res http.ResponseWriter, req *http.Request) {
	logger := entry.Log(req)

	if err := s.store.Flush(req.Context()); err != nil {
		logger.Error("Failed to flush session state", "error", err)
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Info("Flushed all session state")
	res.WriteHeader(http.StatusNoContent)
}
