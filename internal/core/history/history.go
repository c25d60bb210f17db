// Package history derives the read-only history view from the session log:
// sessions on a calendar day, per-day counts and totals.
package history

import (
	"fmt"
	"sort"
	"time"

	"tomodoro/internal/core/model"
)

// DateLayout is the key format used for per-day grouping.
const DateLayout = "2006-01-02"

// Summary aggregates a set of sessions.
type Summary struct {
	Sessions     int
	FocusSeconds int
}

// Overall aggregates the whole log.
type Overall struct {
	Sessions     int
	DaysActive   int
	FocusSeconds int
}

// Day groups the sessions started on one calendar day.
type Day struct {
	Date     time.Time
	Sessions []model.Session
	Summary  Summary
}

// ForDate returns the sessions that started on the calendar day of day, in
// the location of day, preserving log order.
func ForDate(sessions []model.Session, day time.Time) []model.Session {
	var matched []model.Session
	for _, session := range sessions {
		if sameDay(session.StartTime.In(day.Location()), day) {
			matched = append(matched, session)
		}
	}
	return matched
}

// CountByDate counts sessions per day key (YYYY-MM-DD) in loc.
func CountByDate(sessions []model.Session, loc *time.Location) map[string]int {
	counts := make(map[string]int)
	for _, session := range sessions {
		counts[session.StartTime.In(loc).Format(DateLayout)]++
	}
	return counts
}

// DatesWithSessions returns the distinct days that have sessions, oldest first.
func DatesWithSessions(sessions []model.Session, loc *time.Location) []time.Time {
	counts := CountByDate(sessions, loc)
	dates := make([]time.Time, 0, len(counts))
	for key := range counts {
		date, err := time.ParseInLocation(DateLayout, key, loc)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Days groups sessions per day, newest day first.
func Days(sessions []model.Session, loc *time.Location) []Day {
	dates := DatesWithSessions(sessions, loc)
	days := make([]Day, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		daySessions := ForDate(sessions, dates[i])
		days = append(days, Day{
			Date:     dates[i],
			Sessions: daySessions,
			Summary:  Summarize(daySessions),
		})
	}
	return days
}

// Summarize counts focus sessions and their total duration.
func Summarize(sessions []model.Session) Summary {
	var summary Summary
	for _, session := range sessions {
		if session.Mode != model.ModeFocus {
			continue
		}
		summary.Sessions++
		summary.FocusSeconds += session.Duration
	}
	return summary
}

// Overview counts every recorded session, the distinct days in loc that have
// at least one, and the total focus time.
func Overview(sessions []model.Session, loc *time.Location) Overall {
	return Overall{
		Sessions:     len(sessions),
		DaysActive:   len(CountByDate(sessions, loc)),
		FocusSeconds: Summarize(sessions).FocusSeconds,
	}
}

// DayBounds returns the half-open interval [start, end) of the day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// FormatClock renders seconds as MM:SS, or H:MM:SS from one hour on.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatTotal renders a duration such as "1h 05m" or "25m".
func FormatTotal(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	if minutes == 0 && seconds > 0 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm", minutes)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
