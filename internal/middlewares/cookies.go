package middlewares

import (
	"Reviv/internal/config"
	"net/http"
	"time"
)

// SetRefreshCookie delivers the refresh token via a same-site, http-only
// cookie so it never appears in URLs, history, or logs.
func SetRefreshCookie(w http.ResponseWriter, value string, lifetime time.Duration) {
	setCookie(w, value, int(lifetime.Seconds()))
}

func ClearRefreshCookie(w http.ResponseWriter) {
	setCookie(w, "", -1)
}

func setCookie(w http.ResponseWriter, value string, maxAge int) {
	cookie := http.Cookie{
		Name:     config.C.Cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   config.C.Cookie.Domain,
		MaxAge:   maxAge,
		Secure:   config.C.Cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, &cookie)
}
