// Package flow implements the HTTP handler that walks a user through the
// three-legged OAuth 1.0a authorization flow against Twitter.
//
// A single route, GET /login, drives the whole state machine. Each request
// resolves the caller's session and loads its stored OAuthState. A session
// with no stored state gets a fresh temporary credential and enters the
// "start" phase. A request that arrives carrying the oauth_verifier that
// Twitter appends to its callback redirect, while the session is still in
// "start", exchanges the temporary credential for an access credential and
// moves the session to "done". Finally, the handler renders exactly one of
// three pages: an authorize link for a session in "start", or - for a
// session in "done" - the result of a signed verify_credentials call,
// showing either the authenticated user's display name or the status code
// and body of the failed API call.
//
// "done" is terminal: subsequent visits just repeat the verification call
// and never mutate stored state again.
package flow
