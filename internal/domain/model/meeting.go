package model

import "time"

// Meeting is a race weekend held at one circuit.
type Meeting struct {
	Key              int    `json:"meeting_key"`
	Name             string `json:"meeting_name"`
	OfficialName     string `json:"meeting_official_name"`
	CircuitKey       int    `json:"circuit_key"`
	CircuitShortName string `json:"circuit_short_name"`
	CountryCode      string `json:"country_code"`
	CountryKey       int    `json:"country_key"`
	CountryName      string `json:"country_name"`
	Location         string `json:"location"`
	DateStart        string `json:"date_start"`
	GMTOffset        string `json:"gmt_offset"`
	Year             int    `json:"year"`
}

// Start returns the parsed start timestamp, zero when missing or malformed.
func (m Meeting) Start() time.Time {
	t, _ := ParseTimestamp(m.DateStart)
	return t
}
