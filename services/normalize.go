package services

import (
	"regexp"
	"strings"
	"time"
)

var nonDigit = regexp.MustCompile(`\D`)

// SplitDisplayName splits a display name into first and last name. The last
// whitespace-delimited token becomes the last name; everything before it,
// space-joined, is the first name. A name with no space is all first name.
func SplitDisplayName(name string) (firstName, lastName string) {
	if name == "" {
		return "", ""
	}
	if !strings.Contains(name, " ") {
		return name, ""
	}

	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name, ""
	}

	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// FormatPhone normalizes a US phone number to +1XXXXXXXXXX. Anything that
// does not reduce to exactly 10 digits (after dropping a leading 1 from an
// 11-digit number) yields the empty string, which callers treat as
// "no phone provided".
func FormatPhone(input string) string {
	phone := nonDigit.ReplaceAllString(input, "")

	if len(phone) == 11 && strings.HasPrefix(phone, "1") {
		phone = phone[1:]
	}

	if len(phone) != 10 {
		return ""
	}

	return "+1" + phone
}

var (
	emailLocal  = regexp.MustCompile("^[-!#$%&'*+/0-9=?A-Z^_`a-z{|}~]+(\\.[-!#$%&'*+/0-9=?A-Z^_`a-z{|}~]+)*$")
	emailDomain = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]{0,61}[A-Za-z0-9])?)*$`)
)

// IsEmail is a purely syntactic check: bounded local and domain parts,
// dot-separated labels. No DNS or MX lookup.
func IsEmail(input string) bool {
	if len(input) < 3 || len(input) > 254 {
		return false
	}

	at := strings.Index(input, "@")
	if at < 1 || at > 64 {
		return false
	}

	return emailLocal.MatchString(input[:at]) && emailDomain.MatchString(input[at+1:])
}

// IsWebURL reports whether the value can be stored as a photo URL. Only
// http and https schemes are accepted.
func IsWebURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "http:") || strings.HasPrefix(lower, "https:")
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate accepts the common date spellings clients actually send.
func ParseDate(input string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Truthy mirrors loose boolean coercion over decoded JSON values: nil,
// false, zero and the empty string are false, everything else is true.
func Truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
