package model

// Standing is one computed championship row.
type Standing struct {
	Driver Driver `json:"driver"`
	Points int    `json:"points"`
	Wins   int    `json:"wins"`
	Rank   int    `json:"position"`
}

// RefreshJob asks the background workers to recompute a season.
type RefreshJob struct {
	Season      int
	RequestedAt int64 // unix millis
}
