package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultCORSHeaders are the request headers a storefront or admin client
// sends.
var DefaultCORSHeaders = []string{"Authorization", "Content-Type", "X-Store-Id", "X-Request-ID"}

// CORSOptions configures cross-origin access for storefront sites.
type CORSOptions struct {
	// AllowedOrigins holds exact origins, "*" for any origin, or a
	// "https://*.example.com" pattern matching one subdomain level.
	AllowedOrigins []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

type originPolicy struct {
	any      bool
	exact    map[string]struct{}
	suffixes []string
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: map[string]struct{}{}}
	for _, origin := range origins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		switch {
		case origin == "":
		case origin == "*":
			p.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://*")
			p.suffixes = append(p.suffixes, scheme+"://|"+host)
		default:
			p.exact[origin] = struct{}{}
		}
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if p.any {
		return true
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, pattern := range p.suffixes {
		scheme, host, _ := strings.Cut(pattern, "|")
		rest, ok := strings.CutPrefix(origin, scheme)
		if !ok {
			continue
		}
		sub, ok := strings.CutSuffix(rest, host)
		if ok && sub != "" && !strings.Contains(sub, ".") {
			return true
		}
	}
	return false
}

// CORS echoes allowed origins back and answers preflight requests without
// reaching the wrapped handler.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	policy := newOriginPolicy(opts.AllowedOrigins)
	headers := opts.AllowedHeaders
	if len(headers) == 0 {
		headers = DefaultCORSHeaders
	}
	allowedHeaders := strings.Join(headers, ", ")
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	maxAgeSeconds := strconv.Itoa(int(maxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			allowed := origin != "" && policy.allows(origin)
			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Headers", allowedHeaders)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				h.Set("Access-Control-Max-Age", maxAgeSeconds)
			}

			if r.Method == http.MethodOptions && origin != "" && r.Header.Get("Access-Control-Request-Method") != "" {
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
