// Package types contains the flat rows returned by the API and rendered by the CLI.
package types

import "github.com/okian/paddock/internal/domain/model"

// Entry represents one row of the championship table.
type Entry struct {
	Rank         int    `json:"position"`
	DriverNumber int    `json:"driver_number"`
	FullName     string `json:"full_name"`
	Acronym      string `json:"name_acronym,omitempty"`
	Initials     string `json:"initials"`
	TeamName     string `json:"team_name"`
	TeamColour   string `json:"team_colour"`
	HeadshotURL  string `json:"headshot_url,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
}

// NewEntry flattens a standing.
func NewEntry(s model.Standing) Entry {
	return Entry{
		Rank:         s.Rank,
		DriverNumber: s.Driver.Number,
		FullName:     s.Driver.FullName,
		Acronym:      s.Driver.Acronym,
		Initials:     s.Driver.Initials(),
		TeamName:     s.Driver.TeamName,
		TeamColour:   s.Driver.TeamColourHex(),
		HeadshotURL:  s.Driver.HeadshotURL,
		CountryCode:  s.Driver.CountryCode,
		Points:       s.Points,
		Wins:         s.Wins,
	}
}

// Entries flattens standings in order.
func Entries(standings []model.Standing) []Entry {
	out := make([]Entry, len(standings))
	for i, s := range standings {
		out[i] = NewEntry(s)
	}
	return out
}

// Driver is one roster row.
type Driver struct {
	Number      int    `json:"driver_number"`
	FullName    string `json:"full_name"`
	Acronym     string `json:"name_acronym"`
	Initials    string `json:"initials"`
	TeamName    string `json:"team_name"`
	TeamColour  string `json:"team_colour"`
	HeadshotURL string `json:"headshot_url,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Flag        string `json:"flag"`
}

// NewDriver flattens a roster driver.
func NewDriver(d model.Driver) Driver {
	return Driver{
		Number:      d.Number,
		FullName:    d.FullName,
		Acronym:     d.Acronym,
		Initials:    d.Initials(),
		TeamName:    d.TeamName,
		TeamColour:  d.TeamColourHex(),
		HeadshotURL: d.HeadshotURL,
		CountryCode: d.CountryCode,
		Flag:        model.FlagEmoji(d.CountryCode),
	}
}

// Drivers flattens a roster in order.
func Drivers(drivers []model.Driver) []Driver {
	out := make([]Driver, len(drivers))
	for i, d := range drivers {
		out[i] = NewDriver(d)
	}
	return out
}

// Circuit is one venue of the season.
type Circuit struct {
	CircuitKey  int    `json:"circuit_key"`
	ShortName   string `json:"circuit_short_name"`
	MeetingName string `json:"meeting_name"`
	Location    string `json:"location"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Flag        string `json:"flag"`
	DateStart   string `json:"date_start"`
}

// NewCircuit flattens a meeting.
func NewCircuit(m model.Meeting) Circuit {
	return Circuit{
		CircuitKey:  m.CircuitKey,
		ShortName:   m.CircuitShortName,
		MeetingName: m.Name,
		Location:    m.Location,
		CountryCode: m.CountryCode,
		CountryName: m.CountryName,
		Flag:        model.FlagEmoji(m.CountryCode),
		DateStart:   m.DateStart,
	}
}

// Circuits flattens meetings in order.
func Circuits(meetings []model.Meeting) []Circuit {
	out := make([]Circuit, len(meetings))
	for i, m := range meetings {
		out[i] = NewCircuit(m)
	}
	return out
}
