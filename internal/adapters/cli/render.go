// Package cli renders standings, rosters and circuits as terminal tables.
package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/okian/paddock/internal/domain/types"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

// RenderStandings writes the championship table for season.
func RenderStandings(w io.Writer, season int, entries []types.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No standings found for %d.\n", season)
		return
	}
	t := newTable(w, fmt.Sprintf("Driver standings %d", season))
	t.AppendHeader(table.Row{"Pos", "No", "Driver", "Team", "Wins", "Points"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Rank, e.DriverNumber, e.FullName, e.TeamName, e.Wins, e.Points})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}

// RenderDrivers writes the roster for season.
func RenderDrivers(w io.Writer, season int, drivers []types.Driver) {
	if len(drivers) == 0 {
		fmt.Fprintf(w, "No drivers found for %d.\n", season)
		return
	}
	t := newTable(w, fmt.Sprintf("Drivers %d", season))
	t.AppendHeader(table.Row{"No", "Driver", "Code", "Team", "Colour", "Country"})
	for _, d := range drivers {
		t.AppendRow(table.Row{"#" + strconv.Itoa(d.Number), d.FullName, d.Acronym, d.TeamName, d.TeamColour, d.Flag + " " + d.CountryCode})
	}
	t.Render()
}

// RenderCircuits writes the calendar for season.
func RenderCircuits(w io.Writer, season int, circuits []types.Circuit) {
	if len(circuits) == 0 {
		fmt.Fprintf(w, "No circuits found for %d.\n", season)
		return
	}
	t := newTable(w, fmt.Sprintf("Circuits %d", season))
	t.AppendHeader(table.Row{"#", "Circuit", "Meeting", "Location", "Country", "Start"})
	for i, c := range circuits {
		t.AppendRow(table.Row{i + 1, c.ShortName, c.MeetingName, c.Location, c.Flag + " " + c.CountryName, dateOnly(c.DateStart)})
	}
	t.Render()
}

// dateOnly keeps the calendar date of an ISO-8601 timestamp.
func dateOnly(ts string) string {
	if len(ts) >= len("2006-01-02") {
		return ts[:len("2006-01-02")]
	}
	return ts
}
