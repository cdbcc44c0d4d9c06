package viserr

import (
	"regexp"
	"strings"
)

const maxLoggedMessage = 200

var (
	markupPattern  = regexp.MustCompile(`<[^>]*>`)
	payloadPattern = regexp.MustCompile(`(?s)[{\[].*[}\]]`)
	requestPattern = regexp.MustCompile(`Request=[^\s&"]+`)
)

// Sanitize strips upstream payload fragments from msg and bounds its length
// so it can be shipped to an external log sink.
func Sanitize(msg string) string {
	msg = requestPattern.ReplaceAllString(msg, "Request=(redacted)")
	msg = payloadPattern.ReplaceAllString(msg, "(payload)")
	msg = markupPattern.ReplaceAllString(msg, "(markup)")
	msg = strings.Join(strings.Fields(msg), " ")
	if len(msg) > maxLoggedMessage {
		msg = msg[:maxLoggedMessage] + "..."
	}
	return msg
}
