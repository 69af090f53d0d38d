package flow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twitterauth "github.com/golden-vcr/twitter-auth"
	"github.com/golden-vcr/twitter-auth/internal/session"
	"github.com/golden-vcr/twitter-auth/internal/twitter"
)

type mockTwitterClient struct {
	requestToken         string
	requestSecret        string
	requestCredentialErr error
	accessToken          string
	accessSecret         string
	exchangeErr          error
	displayName          string
	verifyErr            error

	numRequestCredentialCalls int
	numExchangeCalls          int
	numVerifyCalls            int
	gotVerifier               string
}

func (m *mockTwitterClient) RequestTemporaryCredential() (string, string, error) {
	m.numRequestCredentialCalls++
	if m.requestCredentialErr != nil {
		return "", "", m.requestCredentialErr
	}
	return m.requestToken, m.requestSecret, nil
}

func (m *mockTwitterClient) AuthorizationURL(requestToken string) (string, error) {
	return "https://api.twitter.com/oauth/authorize?oauth_token=" + requestToken, nil
}

func (m *mockTwitterClient) ExchangeVerifier(requestToken, requestSecret, verifier string) (string, string, error) {
	m.numExchangeCalls++
	m.gotVerifier = verifier
	if m.exchangeErr != nil {
		return "", "", m.exchangeErr
	}
	return m.accessToken, m.accessSecret, nil
}

func (m *mockTwitterClient) VerifyCredentials(ctx context.Context, accessToken, accessSecret string) (string, error) {
	m.numVerifyCalls++
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	return m.displayName, nil
}

type mockEventProducer struct {
	numPublishCalls int
}

func (m *mockEventProducer) PublishAuthorizationCompleted(ctx context.Context) error {
	m.numPublishCalls++
	return nil
}

const testSessionID = "test-session-id"

// get runs one pass of the flow handler for a fixed session, returning the
// response
func get(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.AddCookie(&http.Cookie{Name: "twitter-auth-session", Value: testSessionID})
	res := httptest.NewRecorder()
	s.handleLogin(res, req)
	return res
}

func body(t *testing.T, res *httptest.ResponseRecorder) string {
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

func Test_Server_handleLogin_materializesStartState(t *testing.T) {
	store := session.NewMemoryStore()
	c := &mockTwitterClient{requestToken: "tok1", requestSecret: "sec1"}
	s := NewServer(store, c, &mockEventProducer{})

	res := get(s, "/login")
	assert.Equal(t, 200, res.Code)
	assert.Contains(t, body(t, res), "https://api.twitter.com/oauth/authorize?oauth_token=tok1")
	assert.Equal(t, 1, c.numRequestCredentialCalls)
	assert.Equal(t, 0, c.numVerifyCalls)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		Phase:              twitterauth.PhaseStart,
	}, state)
}

func Test_Server_handleLogin_proceedsWhenCredentialAcquisitionFails(t *testing.T) {
	store := session.NewMemoryStore()
	c := &mockTwitterClient{requestCredentialErr: errors.New("mock error")}
	s := NewServer(store, c, &mockEventProducer{})

	res := get(s, "/login")
	assert.Equal(t, 200, res.Code)
	assert.Contains(t, body(t, res), "oauth_token=")

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, twitterauth.PhaseStart, state.Phase)
	assert.Equal(t, "", state.RequestToken)
}

func Test_Server_handleLogin_completesFlowOnCallback(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		Phase:              twitterauth.PhaseStart,
	}))
	c := &mockTwitterClient{
		accessToken:  "access-tok",
		accessSecret: "access-sec",
		displayName:  "Golden VCR",
	}
	producer := &mockEventProducer{}
	s := NewServer(store, c, producer)

	res := get(s, "/login?oauth_token=tok1&oauth_verifier=verifier-value")
	assert.Equal(t, 200, res.Code)
	assert.Contains(t, body(t, res), "Golden VCR")
	assert.Equal(t, 0, c.numRequestCredentialCalls)
	assert.Equal(t, 1, c.numExchangeCalls)
	assert.Equal(t, "verifier-value", c.gotVerifier)
	assert.Equal(t, 1, c.numVerifyCalls)
	assert.Equal(t, 1, producer.numPublishCalls)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		AccessToken:        "access-tok",
		AccessTokenSecret:  "access-sec",
		Phase:              twitterauth.PhaseDone,
	}, state)
}

func Test_Server_handleLogin_ignoresCallbackForUnrecognizedToken(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		Phase:              twitterauth.PhaseStart,
	}))
	c := &mockTwitterClient{}
	s := NewServer(store, c, &mockEventProducer{})

	res := get(s, "/login?oauth_token=somebody-elses-token&oauth_verifier=verifier-value")
	assert.Equal(t, 200, res.Code)
	assert.Contains(t, body(t, res), "oauth_token=tok1")
	assert.Equal(t, 0, c.numExchangeCalls)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, twitterauth.PhaseStart, state.Phase)
}

func Test_Server_handleLogin_failedExchangePersistsNothing(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		Phase:              twitterauth.PhaseStart,
	}))
	c := &mockTwitterClient{exchangeErr: twitter.ErrExchangeFailed}
	producer := &mockEventProducer{}
	s := NewServer(store, c, producer)

	res := get(s, "/login?oauth_token=tok1&oauth_verifier=verifier-value")
	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.Equal(t, 0, producer.numPublishCalls)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, twitterauth.PhaseStart, state.Phase)
	assert.Equal(t, "", state.AccessToken)
}

func Test_Server_handleLogin_doneIsTerminal(t *testing.T) {
	store := session.NewMemoryStore()
	completed := &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		AccessToken:        "access-tok",
		AccessTokenSecret:  "access-sec",
		Phase:              twitterauth.PhaseDone,
	}
	require.NoError(t, store.Save(context.Background(), testSessionID, completed))
	c := &mockTwitterClient{displayName: "Golden VCR"}
	producer := &mockEventProducer{}
	s := NewServer(store, c, producer)

	// Two plain visits, then one carrying a stale verifier: each visit makes
	// exactly one API call, and nothing mutates stored state or publishes
	// further events
	for _, target := range []string{
		"/login",
		"/login",
		"/login?oauth_token=tok1&oauth_verifier=stale-verifier",
	} {
		res := get(s, target)
		assert.Equal(t, 200, res.Code)
		assert.Contains(t, body(t, res), "Golden VCR")
	}
	assert.Equal(t, 3, c.numVerifyCalls)
	assert.Equal(t, 0, c.numExchangeCalls)
	assert.Equal(t, 0, c.numRequestCredentialCalls)
	assert.Equal(t, 0, producer.numPublishCalls)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Equal(t, completed, state)
}

func Test_Server_handleLogin_rendersEscapedAPIError(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		AccessToken:        "access-tok",
		AccessTokenSecret:  "access-sec",
		Phase:              twitterauth.PhaseDone,
	}))
	c := &mockTwitterClient{
		verifyErr: &twitter.APIError{
			StatusCode: 503,
			Body:       `<b>over capacity & then some</b>`,
		},
	}
	s := NewServer(store, c, &mockEventProducer{})

	res := get(s, "/login")
	assert.Equal(t, 200, res.Code)
	got := body(t, res)
	assert.Contains(t, got, "503")
	assert.Contains(t, got, "&lt;b&gt;over capacity &amp; then some&lt;/b&gt;")
	assert.NotContains(t, got, "<b>over capacity")
}

func Test_Server_handleLogin_corruptStateIsAnError(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken: "tok1",
		AccessToken:  "half-an-access-credential",
		Phase:        twitterauth.PhaseDone,
	}))
	c := &mockTwitterClient{}
	s := NewServer(store, c, &mockEventProducer{})

	res := get(s, "/login")
	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, body(t, res), "corrupt")
	assert.Equal(t, 0, c.numRequestCredentialCalls)
	assert.Equal(t, 0, c.numVerifyCalls)
}

func Test_Server_handleDeleteSessions(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), testSessionID, &twitterauth.OAuthState{
		RequestToken:       "tok1",
		RequestTokenSecret: "sec1",
		Phase:              twitterauth.PhaseStart,
	}))
	s := NewServer(store, &mockTwitterClient{}, &mockEventProducer{})

	req := httptest.NewRequest(http.MethodDelete, "/sessions", strings.NewReader(""))
	res := httptest.NewRecorder()
	s.handleDeleteSessions(res, req)
	assert.Equal(t, http.StatusNoContent, res.Code)

	state, err := store.Load(context.Background(), testSessionID)
	assert.NoError(t, err)
	assert.Nil(t, state)
}
