package middleware

import (
	"net/http"
	"strings"
)

// CORS allows browser clients from the configured origins. An origin of "*"
// allows any origin; credentials are then echoed back per request origin.
type CORS struct {
	allowed map[string]struct{}
	any     bool
}

// NewCORS takes a comma separated list of origins.
func NewCORS(origins string) *CORS {
	c := &CORS{allowed: make(map[string]struct{})}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			c.any = true
		default:
			c.allowed[strings.TrimRight(origin, "/")] = struct{}{}
		}
	}
	return c
}

func (c *CORS) allows(origin string) bool {
	if c.any {
		return true
	}
	_, ok := c.allowed[origin]
	return ok
}

func (c *CORS) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()
		h.Add("Vary", "Origin")

		if origin != "" && c.allows(origin) {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
			h.Set("Access-Control-Max-Age", "86400")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
