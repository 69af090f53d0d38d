// Package session persists each browser session's OAuthState behind a small
// Store interface, keyed by an opaque session ID that we mint into a cookie.
//
// The workflow controller only ever reads and writes one logical record per
// session, so the interface is deliberately tiny: Load returns nil when the
// user hasn't started the flow yet (which is itself a meaningful state),
// Save overwrites unconditionally, and Flush exists so an admin can clear
// out stored sessions wholesale. Two implementations are provided: an
// in-memory map for local development and tests, and a Redis-backed store
// for real deployments where state needs to survive a restart.
package session
