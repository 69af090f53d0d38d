// Package twitter wraps the OAuth 1.0a primitives we need from Twitter: it
// obtains temporary credentials, builds the user-facing authorize URL,
// exchanges a callback verifier for a long-lived access credential, and
// makes signed API calls on the user's behalf.
//
// Request signing, nonce/timestamp generation and token parsing are all
// delegated to github.com/dghubble/oauth1; this package's contribution is
// the retry behavior layered on top. The temporary-credential request is
// retried with linearly-growing backoff until the provider hands us both
// token fields, since a flaky signing server tends to recover on its own.
// API calls are retried with fixed backoff, and only 5xx responses are
// considered transient: a 4xx means the request itself is bad and repeating
// it would just burn our rate limit, so it fails immediately.
package twitter
