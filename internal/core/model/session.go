package model

import "time"

// Session is one recorded focus interval. Sessions are never modified after
// they are appended to the log.
type Session struct {
	ID        string     `json:"id,omitempty"`
	Mode      Mode       `json:"mode"`
	Duration  int        `json:"duration"` // seconds of active time
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}
