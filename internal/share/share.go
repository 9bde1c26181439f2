package share

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Opener hands a prepared deep link to the platform's external share
// mechanism. Implementations live outside this module; the engine only
// guarantees that the export has completed before Open is called.
type Opener interface {
	Open(ctx context.Context, link string) error
}

// MessageLink builds a messaging deep link for the given phone number and
// message text. The number is stripped to digits; the message is query
// escaped so the template survives the URL intact.
func MessageLink(phone, message string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits.String(), url.QueryEscape(message))
}
