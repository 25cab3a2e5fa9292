package mailbox

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrTokenNotFound = errors.New("token not found in message")

// ExtractToken finds the token in a "#<route>?token=<hex>" link, looking in
// the plain-text part first and then in the HTML part.
func ExtractToken(m *Message, route string) (string, error) {
	re, err := regexp.Compile(`(?i)#` + regexp.QuoteMeta(route) + `\?token=([a-f0-9]+)`)
	if err != nil {
		return "", fmt.Errorf("token pattern for %q: %w", route, err)
	}
	for _, body := range []string{m.Text, m.HTML} {
		if match := re.FindStringSubmatch(body); match != nil {
			return match[1], nil
		}
	}
	return "", fmt.Errorf("%s: %w", route, ErrTokenNotFound)
}
