package lead

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// PhoneRegion is the region assumed for numbers without a country code.
const PhoneRegion = "US"

// FormatPhone renders a valid number in national format, or international
// format when it belongs to another country. Anything that does not parse
// as a valid number is returned trimmed but otherwise as typed.
func FormatPhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, PhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	if phonenumbers.GetRegionCodeForNumber(number) == PhoneRegion {
		return phonenumbers.Format(number, phonenumbers.NATIONAL)
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}
