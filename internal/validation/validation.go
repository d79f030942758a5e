// Package validation provides the pure format checks shared by the engine
// and the HTTP layer. Both layers run the same checks on purpose; either may
// be the first to reject a malformed input.
package validation

import (
	"fmt"
	"regexp"
	"time"
)

// TimestampLayout is the only accepted transaction timestamp format
const TimestampLayout = "2006-01-02T15:04:05"

var ipv4Pattern = regexp.MustCompile(
	`^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// FormatError indicates a malformed input field. It is always surfaced to
// the caller and never produces a ledger write.
type FormatError struct {
	Field  string
	Reason string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is implements the errors.Is interface for FormatError
func (e FormatError) Is(target error) bool {
	t, ok := target.(FormatError)
	if !ok {
		return false
	}
	// An empty target field matches any FormatError
	if t.Field == "" {
		return true
	}
	return e.Field == t.Field
}

// ValidIPv4 reports whether ip is four dot-separated octets, each 0-255,
// with no other characters.
func ValidIPv4(ip string) bool {
	return ipv4Pattern.MatchString(ip)
}

// ValidLuhn runs the mod-10 checksum over a digits-only string.
// Empty or non-digit input is invalid.
func ValidLuhn(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n = n%10 + 1
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

// ParseTimestamp parses a transaction timestamp in TimestampLayout.
// Any deviation is a FormatError, not a business rejection.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, FormatError{Field: "date", Reason: "must use format yyyy-MM-ddTHH:mm:ss"}
	}
	return t, nil
}
