package models

import "time"

// Dates travel as Unix seconds over the HTTP API and as native datetimes in
// the document store.

func FromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func UnixOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.Unix()
}
