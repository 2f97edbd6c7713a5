package server

import (
	"net/http"
	"time"
)

const (
	// CookieName carries the opaque user reference handed over by the
	// upstream identity provider.
	CookieName = "neo_user"
	// CookieMaxAge is the duration the cookie is valid (30 days)
	CookieMaxAge = 30 * 24 * time.Hour
)

// SetUserCookie sets an HTTP-only cookie holding the user reference.
func SetUserCookie(w http.ResponseWriter, userID string) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    userID,
		Path:     "/",
		MaxAge:   int(CookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false, // Set to true in production with HTTPS
	}
	http.SetCookie(w, cookie)
}

// GetUserCookie reads the user reference from the cookie.
func GetUserCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
