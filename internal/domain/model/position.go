package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Position is one timestamped classification report for a driver in a session.
type Position struct {
	Date         string `json:"date"`
	DriverNumber int    `json:"driver_number"`
	MeetingKey   int    `json:"meeting_key"`
	Position     int    `json:"position"`
	SessionKey   int    `json:"session_key"`
}

// Timestamp returns the parsed report time, zero when missing or malformed.
func (p Position) Timestamp() time.Time {
	t, _ := ParseTimestamp(p.Date)
	return t
}

// PositionShape tags which response layout a position payload had.
type PositionShape int

const (
	// ShapeUnknown means the payload matched no accepted layout and yields no records.
	ShapeUnknown PositionShape = iota
	// ShapeList is a bare JSON array of positions.
	ShapeList
	// ShapeWrappedPositions is an object with the array under "positions".
	ShapeWrappedPositions
	// ShapeWrappedData is an object with the array under "data".
	ShapeWrappedData
)

// String returns a stable label used in logs and metrics.
func (s PositionShape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeWrappedPositions:
		return "wrapped_positions"
	case ShapeWrappedData:
		return "wrapped_data"
	default:
		return "unknown"
	}
}

// PositionBatch is the decoded position payload of one session.
type PositionBatch struct {
	Shape   PositionShape
	Records []Position
}

// Known reports whether the payload matched an accepted layout.
func (b PositionBatch) Known() bool {
	return b.Shape != ShapeUnknown
}

// wrapperKeys are tried in order; the first non-null one decides the shape.
var wrapperKeys = []struct {
	key   string
	shape PositionShape
}{
	{"positions", ShapeWrappedPositions},
	{"data", ShapeWrappedData},
}

// DecodePositionBatch decodes a positions response that is either a bare list
// or an object wrapping the list. Anything else decodes to ShapeUnknown with no records.
func DecodePositionBatch(data []byte) PositionBatch {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return PositionBatch{Shape: ShapeUnknown}
	}

	switch data[0] {
	case '[':
		var records []Position
		if err := json.Unmarshal(data, &records); err != nil {
			return PositionBatch{Shape: ShapeUnknown}
		}
		return PositionBatch{Shape: ShapeList, Records: records}

	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return PositionBatch{Shape: ShapeUnknown}
		}
		for _, w := range wrapperKeys {
			raw, ok := wrapper[w.key]
			if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				continue
			}
			var records []Position
			if err := json.Unmarshal(raw, &records); err != nil {
				return PositionBatch{Shape: ShapeUnknown}
			}
			return PositionBatch{Shape: w.shape, Records: records}
		}
	}
	return PositionBatch{Shape: ShapeUnknown}
}
