package model

import "strings"

const (
	checkeredFlag     = "🏁"
	regionalIndicator = 0x1F1E6 - 'A'
)

// FlagEmoji converts a two-letter country code into its flag emoji.
func FlagEmoji(countryCode string) string {
	if len(countryCode) != 2 {
		return checkeredFlag
	}
	code := strings.ToUpper(countryCode)
	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return checkeredFlag
		}
		b.WriteRune(r + regionalIndicator)
	}
	return b.String()
}
