package model

import (
	"strings"
	"unicode/utf8"
)

const defaultTeamColour = "#666666"

// Driver is a competitor as reported for one session.
type Driver struct {
	Number        int    `json:"driver_number"`
	FullName      string `json:"full_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	BroadcastName string `json:"broadcast_name,omitempty"`
	Acronym       string `json:"name_acronym"`
	TeamName      string `json:"team_name"`
	TeamColour    string `json:"team_colour"`
	HeadshotURL   string `json:"headshot_url"`
	CountryCode   string `json:"country_code"`
	SessionKey    int    `json:"session_key,omitempty"`
	MeetingKey    int    `json:"meeting_key,omitempty"`
}

// TeamColourHex returns the team colour as a CSS hex value.
func (d Driver) TeamColourHex() string {
	c := strings.TrimPrefix(strings.TrimSpace(d.TeamColour), "#")
	if c == "" {
		return defaultTeamColour
	}
	return "#" + c
}

// Initials is shown in place of a missing headshot.
func (d Driver) Initials() string {
	if d.Acronym != "" {
		return d.Acronym
	}
	var b strings.Builder
	for _, part := range strings.Fields(d.FullName) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
