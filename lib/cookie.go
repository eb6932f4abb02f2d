package lib

import (
	"net/http"
	"storefront_server/config"
	"time"
)

// newCookie scopes a cookie for the environment: cross-site and Secure in production, Lax locally.
func newCookie(name, value string, expiry time.Time, httpOnly bool) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiry,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	}
	if config.IsProduction() {
		c.SameSite = http.SameSiteNoneMode
		c.Secure = true
		c.Domain = config.GetConfig().Server.CookieDomain
	}
	if until := time.Until(expiry); until > 0 {
		c.MaxAge = int(until.Seconds())
	} else {
		c.MaxAge = -1
	}
	return c
}

// SetCookie sets an HttpOnly cookie, used for the access token.
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	http.SetCookie(w, newCookie(key, val, expiry, true))
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie expires the cookie in the browser.
func ClearCookie(key string, w http.ResponseWriter) {
	http.SetCookie(w, newCookie(key, "", time.Now().Add(-time.Hour), key != CSRFCookieName))
}

// SetCSRFCookie sets the csrf cookie. Scripts read it to echo it in the X-CSRF-Token header.
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	http.SetCookie(w, newCookie(CSRFCookieName, val, expiry, false))
}
