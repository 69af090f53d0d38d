package twitter

import (
	"fmt"
	"time"

	"github.com/dghubble/oauth1"
	twauth "github.com/dghubble/oauth1/twitter"

	"github.com/golden-vcr/twitter-auth/internal/retry"
)

const (
	// The temporary-credential endpoint is retried generously with growing
	// backoff: any failure (including a response missing token fields) is
	// treated as transient
	temporaryCredentialMaxAttempts = 10
	temporaryCredentialBackoffUnit = 5 * time.Second

	// API calls get a tighter budget with a fixed interval; only 5xx
	// responses are retried
	apiCallMaxAttempts     = 5
	apiCallBackoffInterval = 10 * time.Second

	defaultAPIBaseURL = "https://api.twitter.com/1.1"
)

// Client performs OAuth 1.0a-signed requests against Twitter on behalf of
// our consumer application
type Client struct {
	config     *oauth1.Config
	apiBaseURL string

	credentialBackoffUnit time.Duration
	apiBackoffInterval    time.Duration
}

// NewClient prepares a client that signs requests with the given consumer
// credentials, directing the user back to callbackURL once they've
// authorized our app at Twitter
func NewClient(consumerKey, consumerSecret, callbackURL string) *Client {
	return &Client{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint:       twauth.AuthorizeEndpoint,
		},
		apiBaseURL:            defaultAPIBaseURL,
		credentialBackoffUnit: temporaryCredentialBackoffUnit,
		apiBackoffInterval:    apiCallBackoffInterval,
	}
}

// RequestTemporaryCredential asks Twitter for a new request token, retrying
// until the response carries both the token and its secret or the attempt
// budget runs out. On exhaustion the last error is returned along with empty
// token fields; the caller decides whether that's fatal
func (c *Client) RequestTemporaryCredential() (string, string, error) {
	var requestToken, requestSecret string
	err := retry.Do(func() error {
		token, secret, err := c.config.RequestToken()
		if err != nil {
			return err
		}
		requestToken = token
		requestSecret = secret
		return nil
	}, retry.UpTo(retry.Linear(c.credentialBackoffUnit), temporaryCredentialMaxAttempts))
	if err != nil {
		return "", "", fmt.Errorf("failed to obtain temporary credential: %w", err)
	}
	return requestToken, requestSecret, nil
}

// AuthorizationURL builds the Twitter-hosted page the user must visit to
// grant our app access, embedding the given request token
func (c *Client) AuthorizationURL(requestToken string) (string, error) {
	u, err := c.config.AuthorizationURL(requestToken)
	if err != nil {
		return "", fmt.Errorf("failed to build authorization URL: %w", err)
	}
	return u.String(), nil
}

// ExchangeVerifier trades a temporary credential plus the verifier from the
// provider callback for a long-lived access credential. The exchange is a
// single attempt: a failure or a response missing either token field is
// reported as ErrExchangeFailed so that nothing invalid is ever persisted
func (c *Client) ExchangeVerifier(requestToken, requestSecret, verifier string) (string, string, error) {
	accessToken, accessSecret, err := c.config.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if accessToken == "" || accessSecret == "" {
		return "", "", fmt.Errorf("%w: response is missing token fields", ErrExchangeFailed)
	}
	return accessToken, accessSecret, nil
}
