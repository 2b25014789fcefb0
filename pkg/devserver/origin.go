package devserver

import (
	"net/http"
	"net/url"
)

// originChecker returns the WebSocket origin check. Requests without an
// Origin header and same-origin requests are accepted; other origins must be
// listed in allowed.
func originChecker(allowed []string) func(r *http.Request) bool {
	extra := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		extra[origin] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if extra[origin] || extra["*"] {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil || r.Host == "" {
			return false
		}
		return u.Host == r.Host
	}
}
