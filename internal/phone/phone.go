package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const unavailable = "N/A"

// Normalize parses a phone number and returns it in E.164 form. A number
// with a leading "+" is international. Otherwise it is read as a national
// number of defaultRegion (an ISO 3166 code such as "IN"), and failing that
// as a country code followed by the subscriber number without the "+".
func Normalize(raw, defaultRegion string) (string, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return "", fmt.Errorf("empty phone number")
	}

	if !strings.HasPrefix(clean, "+") && defaultRegion != "" {
		num, err := phonenumbers.Parse(clean, strings.ToUpper(defaultRegion))
		if err == nil && phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.E164), nil
		}
	}
	if !strings.HasPrefix(clean, "+") {
		clean = "+" + clean
	}

	num, err := phonenumbers.Parse(clean, "")
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number: %s", Mask(raw))
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// LastFour returns the trailing four digits shown to the user while the
// code is in flight, or "N/A" when there is no destination.
func LastFour(number string) string {
	digits := onlyDigits(number)
	if digits == "" {
		return unavailable
	}
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Mask hides all but the last four digits, for log output.
func Mask(number string) string {
	digits := onlyDigits(number)
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
