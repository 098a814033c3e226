package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinSeason is the first world championship year.
const MinSeason = 1950

// MaxSeason returns the latest season that can be requested: next calendar year.
func MaxSeason() int {
	return time.Now().Year() + 1
}

// ParseSeason reads a season query value. An empty value gives fallback.
func ParseSeason(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	season, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadSeason, raw)
	}
	if season < MinSeason || season > MaxSeason() {
		return 0, fmt.Errorf("%w: %d is outside %d..%d", ErrBadSeason, season, MinSeason, MaxSeason())
	}
	return season, nil
}
