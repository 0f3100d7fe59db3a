package utils

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GenerateRateLimitKey creates a unique key for rate limiting
func GenerateRateLimitKey(ip, path string) string {
	return fmt.Sprintf("rl:%s:%s", ip, path)
}

// ErrorResponse creates a standardized error response
func ErrorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// SuccessResponse creates a standardized success response
func SuccessResponse(data interface{}) fiber.Map {
	return fiber.Map{
		"success": true,
		"data":    data,
	}
}

// ParseUint safely parses a string to uint
func ParseUint(s string) uint {
	i, _ := strconv.ParseUint(s, 10, 32)
	return uint(i)
}

var youtubeIDRe = regexp.MustCompile(`(?:v=|youtu\.be/)([^&\s]+)`)

// YoutubeEmbedURL derives an embeddable player URL from a watch or
// short-form YouTube link. Returns "" when no video ID can be found.
// The extraction is deliberately permissive about the rest of the URL.
func YoutubeEmbedURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	m := youtubeIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return "https://www.youtube.com/embed/" + m[1]
}
