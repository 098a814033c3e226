// Package model contains domain models passed between layers.
//
// Field names and JSON tags follow the OpenF1 v1 schema.
package model

import "time"

// Session is one timed event of a race weekend (practice, qualifying, sprint, race).
type Session struct {
	Key              int    `json:"session_key"`
	Name             string `json:"session_name"`
	Type             string `json:"session_type"`
	DateStart        string `json:"date_start"`
	DateEnd          string `json:"date_end,omitempty"`
	MeetingKey       int    `json:"meeting_key"`
	CircuitShortName string `json:"circuit_short_name"`
	CountryCode      string `json:"country_code,omitempty"`
	Location         string `json:"location,omitempty"`
	Year             int    `json:"year"`
}

// Start returns the parsed start timestamp, zero when missing or malformed.
func (s Session) Start() time.Time {
	t, _ := ParseTimestamp(s.DateStart)
	return t
}

// IsZero reports whether the session carries no identifier.
func (s Session) IsZero() bool {
	return s.Key == 0
}

// SessionQuery filters the sessions endpoint. Zero fields are omitted.
type SessionQuery struct {
	Year int
	Name string
}
