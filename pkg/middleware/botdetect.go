package middleware

import "strings"

// BotDetection is the outcome of inspecting a request's user agent
type BotDetection struct {
	// IsBot reports whether the agent looks automated
	IsBot bool
	// Allowed reports whether the agent is an allow-listed crawler
	Allowed bool
	// Matched is the fingerprint that triggered detection, for logging
	Matched string
}

// Deny reports whether the request should be rejected
func (d BotDetection) Deny() bool {
	return d.IsBot && !d.Allowed
}

// BotDetector flags automated clients from their user agent. Recognized
// search-engine crawlers are exempt.
type BotDetector struct {
	allowlist    []string
	fingerprints []string
}

// NewBotDetector creates a detector with the default fingerprint set
func NewBotDetector() *BotDetector {
	return &BotDetector{
		allowlist: []string{
			"googlebot",
			"bingbot",
			"duckduckbot",
			"slurp",
			"baiduspider",
			"yandexbot",
		},
		fingerprints: []string{
			"bot",
			"crawler",
			"spider",
			"scraper",
			"curl",
			"wget",
			"python-requests",
			"python-urllib",
			"go-http-client",
			"java/",
			"libwww",
			"scrapy",
			"phantomjs",
			"headlesschrome",
		},
	}
}

// Detect inspects a user agent string. An empty agent is treated as a bot:
// every mainstream browser and crawler sends one.
func (d *BotDetector) Detect(userAgent string) BotDetection {
	ua := strings.ToLower(strings.TrimSpace(userAgent))

	if ua == "" {
		return BotDetection{IsBot: true, Matched: "empty user agent"}
	}

	for _, crawler := range d.allowlist {
		if strings.Contains(ua, crawler) {
			return BotDetection{IsBot: true, Allowed: true, Matched: crawler}
		}
	}

	for _, fp := range d.fingerprints {
		if strings.Contains(ua, fp) {
			return BotDetection{IsBot: true, Matched: fp}
		}
	}

	return BotDetection{}
}
