package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYoutubeEmbedURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://youtu.be/abc123", "https://www.youtube.com/embed/abc123"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=30s", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://example.com/video", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, YoutubeEmbedURL(tc.in), "input %q", tc.in)
	}
}

func TestGenerateRateLimitKey(t *testing.T) {
	assert.Equal(t, "rl:1.2.3.4:/auth/login", GenerateRateLimitKey("1.2.3.4", "/auth/login"))
}
