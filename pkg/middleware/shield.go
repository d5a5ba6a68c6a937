package middleware

import (
	"net/http"
	"net/url"
	"regexp"
)

// Shield is a heuristic request-anomaly detector. It scans the request path
// and query string for common injection fingerprints. It is deliberately
// coarse: the goal is to stop drive-by scanner traffic, not to replace
// input validation at the handlers.
type Shield struct {
	patterns []*regexp.Regexp
}

// NewShield compiles the default pattern set
func NewShield() *Shield {
	raw := []string{
		`(?i)union[\s+]+select`,
		`(?i)information_schema`,
		`(?i)drop\s+table`,
		`(?i)insert\s+into`,
		`(?i)['"]\s*or\s+['"]?1['"]?\s*=\s*['"]?1`,
		`(?i)sleep\s*\(`,
		`(?i)<\s*script`,
		`(?i)javascript:`,
		`(?i)onerror\s*=`,
		`\.\./`,
		`(?i)etc/passwd`,
		`(?i)cmd\.exe`,
		`\x00`,
	}
	patterns := make([]*regexp.Regexp, 0, len(raw))
	for _, p := range raw {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &Shield{patterns: patterns}
}

// Inspect reports whether the request trips an anomaly pattern, and which
// pattern matched (for logging).
func (s *Shield) Inspect(r *http.Request) (blocked bool, pattern string) {
	targets := []string{r.URL.Path, r.URL.RawQuery}
	if unescaped, err := url.QueryUnescape(r.URL.RawQuery); err == nil && unescaped != r.URL.RawQuery {
		targets = append(targets, unescaped)
	}

	for _, target := range targets {
		if target == "" {
			continue
		}
		for _, p := range s.patterns {
			if p.MatchString(target) {
				return true, p.String()
			}
		}
	}
	return false, ""
}
