package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

const maxUserAgentChars = 50

// ClientKey derives the rate-limit identity for a request: forwarded-for
// address, else real-IP header, else the connection address, joined with a
// truncated user-agent. This is a coarse abuse-deterrence fingerprint, not
// an authenticated identity; collisions and spoofing are accepted.
func ClientKey(r *http.Request) string {
	ip := ""
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip = strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if ip == "" {
		ip = strings.TrimSpace(r.Header.Get("X-Real-IP"))
	}
	if ip == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		} else {
			ip = r.RemoteAddr
		}
	}
	if ip == "" {
		ip = "unknown"
	}
	ua := r.Header.Get("User-Agent")
	if len(ua) > maxUserAgentChars {
		ua = ua[:maxUserAgentChars]
	}
	return ip + ":" + ua
}
