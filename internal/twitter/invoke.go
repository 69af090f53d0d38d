package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"

	"github.com/golden-vcr/twitter-auth/internal/retry"
)

// Call makes a single signed API request using the given access credential,
// returning the response body on a 200. Any other status is reported as an
// *APIError carrying the status code and body verbatim: 5xx responses are
// retried on a fixed interval until the attempt budget runs out, while
// anything else fails immediately
func (c *Client) Call(ctx context.Context, accessToken, accessSecret, method, endpoint string, params url.Values) (string, error) {
	httpClient := c.config.Client(ctx, oauth1.NewToken(accessToken, accessSecret))

	var body string
	err := retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to prepare request: %w", err))
		}
		if params != nil {
			req.URL.RawQuery = params.Encode()
		}
		res, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}
		if res.StatusCode != http.StatusOK {
			apiErr := &APIError{StatusCode: res.StatusCode, Body: string(data)}
			if res.StatusCode >= 500 && res.StatusCode <= 599 {
				return apiErr
			}
			return retry.Permanent(apiErr)
		}
		body = string(data)
		return nil
	}, retry.UpTo(retry.Fixed(c.apiBackoffInterval), apiCallMaxAttempts))
	if err != nil {
		return "", err
	}
	return body, nil
}

// VerifyCredentials confirms that an access credential works by asking
// Twitter who it belongs to, returning that user's display name
func (c *Client) VerifyCredentials(ctx context.Context, accessToken, accessSecret string) (string, error) {
	body, err := c.Call(ctx, accessToken, accessSecret, http.MethodGet, c.apiBaseURL+"/account/verify_credentials.json", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return "", fmt.Errorf("failed to decode verify_credentials response: %w", err)
	}
	if payload.Name != "" {
		return payload.Name, nil
	}
	return payload.ScreenName, nil
}
