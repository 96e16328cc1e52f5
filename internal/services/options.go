package services

import "time"

// Clock supplies the current instant. Services stamp every write with it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// Limits bounds the size of list responses.
type Limits struct {
	Default int
	Max     int
}

// DefaultLimits match the configuration defaults.
var DefaultLimits = Limits{Default: 20, Max: 100}

// Normalize maps a non-positive limit to the default and caps it at the maximum.
func (l Limits) Normalize(limit int) int {
	if limit <= 0 {
		limit = l.Default
	}
	if l.Max > 0 && limit > l.Max {
		limit = l.Max
	}
	return limit
}
