package session

import (
	"net/http"

	"github.com/google/uuid"
)

// cookieName identifies the cookie that carries a session's opaque ID
const cookieName = "twitter-auth-session"

// GetOrCreateID resolves the session ID for an incoming request: if the
// request already carries our session cookie, its value is reused;
// otherwise a fresh ID is minted and set on the response so that subsequent
// requests from the same browser resolve to the same stored state
func GetOrCreateID(res http.ResponseWriter, req *http.Request) string {
	if cookie, err := req.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sessionID := uuid.NewString()
	http.SetCookie(res, &http.Cookie{
		Name:     cookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
