package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotDetection(t *testing.T) {
	detector := NewBotDetector()

	tests := []struct {
		name      string
		userAgent string
		isBot     bool
		deny      bool
	}{
		{
			name:      "desktop browser",
			userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			isBot:     false,
			deny:      false,
		},
		{
			name:      "mobile browser",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile Safari/604.1",
			isBot:     false,
			deny:      false,
		},
		{
			name:      "empty user agent",
			userAgent: "",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "curl",
			userAgent: "curl/8.4.0",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "python requests",
			userAgent: "python-requests/2.31.0",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "go http client",
			userAgent: "Go-http-client/1.1",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "generic crawler",
			userAgent: "SomethingCrawler/1.0 (+http://example.com)",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "headless chrome",
			userAgent: "Mozilla/5.0 HeadlessChrome/119.0",
			isBot:     true,
			deny:      true,
		},
		{
			name:      "googlebot is allow-listed",
			userAgent: "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			isBot:     true,
			deny:      false,
		},
		{
			name:      "bingbot is allow-listed",
			userAgent: "Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
			isBot:     true,
			deny:      false,
		},
		{
			name:      "duckduckbot is allow-listed",
			userAgent: "DuckDuckBot/1.0; (+http://duckduckgo.com/duckduckbot.html)",
			isBot:     true,
			deny:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detection := detector.Detect(tt.userAgent)
			assert.Equal(t, tt.isBot, detection.IsBot, "IsBot")
			assert.Equal(t, tt.deny, detection.Deny(), "Deny")
		})
	}
}
