package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID"
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// wildcardOrigin matches a single subdomain label, e.g. https://*.foodmood.app
type wildcardOrigin struct {
	scheme string
	suffix string
}

// parseWildcardOrigin returns nil unless pattern has the form
// scheme://*.domain.tld with exactly one leading wildcard.
func parseWildcardOrigin(pattern string) *wildcardOrigin {
	i := strings.Index(pattern, "://")
	if i <= 0 {
		return nil
	}
	scheme, host := pattern[:i+3], pattern[i+3:]
	if !strings.HasPrefix(host, "*.") || strings.Count(host, "*") != 1 {
		return nil
	}
	suffix := host[1:]
	labels := strings.Split(suffix[1:], ".")
	if len(labels) < 2 {
		return nil
	}
	for _, l := range labels {
		if l == "" {
			return nil
		}
	}
	return &wildcardOrigin{scheme: scheme, suffix: suffix}
}

func (w *wildcardOrigin) matches(origin string) bool {
	rest, ok := strings.CutPrefix(origin, w.scheme)
	if !ok {
		return false
	}
	label, ok := strings.CutSuffix(rest, w.suffix)
	return ok && label != "" && !strings.ContainsAny(label, "./:")
}

type originPolicy struct {
	allowAll  bool
	exact     map[string]struct{}
	wildcards []*wildcardOrigin
}

func newOriginPolicy(origins []string) originPolicy {
	p := originPolicy{exact: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
		case o == "*":
			p.allowAll = true
		default:
			if w := parseWildcardOrigin(o); w != nil {
				p.wildcards = append(p.wildcards, w)
			} else {
				p.exact[o] = struct{}{}
			}
		}
	}
	if len(p.exact) == 0 && len(p.wildcards) == 0 {
		p.allowAll = true
	}
	return p
}

func (p originPolicy) allows(origin string) bool {
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, w := range p.wildcards {
		if w.matches(origin) {
			return true
		}
	}
	return false
}

// CORS allows the configured origins. An empty list or "*" allows any
// origin without credentials; "https://*.domain.tld" allows one subdomain
// level.
func CORS(origins []string) gin.HandlerFunc {
	policy := newOriginPolicy(origins)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()

		switch {
		case policy.allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && policy.allows(origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		case c.Request.Method == http.MethodOptions:
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", corsAllowMethods)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
