package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tomodoro/internal/core/history"
	"tomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// SessionSource lists recorded sessions.
type SessionSource interface {
	List(ctx context.Context) ([]model.Session, error)
}

// recentActiveDays is how many active days are listed under the calendar.
const recentActiveDays = 7

// HistoryWindow shows the sessions recorded on a chosen day.
type HistoryWindow struct {
	window   fyne.Window
	source   SessionSource
	logger   *slog.Logger
	day      time.Time
	sessions []model.Session
	title    *widget.Label
	summary  *widget.Label
	overall  *widget.Label
	active   *widget.Label
	list     *widget.List
}

// NewHistoryWindow creates the history window, initially showing today.
func NewHistoryWindow(app fyne.App, source SessionSource, logger *slog.Logger) *HistoryWindow {
	window := app.NewWindow("tomodoro history")

	historyWindow := &HistoryWindow{
		window:  window,
		source:  source,
		logger:  logger,
		day:     time.Now(),
		title:   widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		summary: widget.NewLabel(""),
		overall: widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Italic: true}),
		active:  widget.NewLabel(""),
	}

	historyWindow.list = widget.NewList(
		func() int { return len(historyWindow.sessions) },
		func() fyne.CanvasObject {
			return container.NewBorder(nil, nil, widget.NewLabel("00:00"), widget.NewLabel("00:00"), widget.NewLabel("Focus"))
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id >= len(historyWindow.sessions) {
				return
			}
			session := historyWindow.sessions[id]
			row := item.(*fyne.Container)
			// Border places the centre object first.
			row.Objects[0].(*widget.Label).SetText(session.Mode.Title())
			row.Objects[1].(*widget.Label).SetText(session.StartTime.Local().Format("15:04"))
			row.Objects[2].(*widget.Label).SetText(history.FormatClock(session.Duration))
		},
	)

	calendar := widget.NewCalendar(historyWindow.day, func(day time.Time) {
		historyWindow.ShowDay(day)
	})

	sidebar := container.NewVBox(
		calendar,
		widget.NewLabelWithStyle("Active days", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		historyWindow.active,
	)
	header := container.NewVBox(historyWindow.overall, widget.NewSeparator(), historyWindow.title, historyWindow.summary)
	details := container.NewBorder(header, nil, nil, nil, historyWindow.list)
	window.SetContent(container.NewHSplit(sidebar, details))
	window.Resize(fyne.NewSize(640, 380))
	window.SetCloseIntercept(func() { window.Hide() })

	return historyWindow
}

// Show displays the window and reloads the selected day.
func (historyWindow *HistoryWindow) Show() {
	historyWindow.Refresh()
	historyWindow.window.Show()
	historyWindow.window.RequestFocus()
}

// ShowDay switches to day and reloads.
func (historyWindow *HistoryWindow) ShowDay(day time.Time) {
	historyWindow.day = day
	historyWindow.Refresh()
}

// Refresh reloads the log and shows the selected day.
func (historyWindow *HistoryWindow) Refresh() {
	all, err := historyWindow.source.List(context.Background())
	if err != nil {
		historyWindow.logger.Error("load history", "error", err)
		all = nil
	}

	from, _ := history.DayBounds(historyWindow.day)
	historyWindow.sessions = history.ForDate(all, historyWindow.day)
	historyWindow.title.SetText(from.Format("Monday, 2 January 2006"))
	historyWindow.summary.SetText(summaryText(history.Summarize(historyWindow.sessions)))
	historyWindow.overall.SetText(overallText(history.Overview(all, historyWindow.day.Location())))
	historyWindow.active.SetText(activeDaysText(all, historyWindow.day.Location(), recentActiveDays))
	historyWindow.list.Refresh()
}

func summaryText(summary history.Summary) string {
	if summary.Sessions == 0 {
		return "No focus sessions"
	}
	noun := "sessions"
	if summary.Sessions == 1 {
		noun = "session"
	}
	return fmt.Sprintf("%d focus %s, %s total", summary.Sessions, noun, history.FormatTotal(summary.FocusSeconds))
}

func overallText(overall history.Overall) string {
	if overall.Sessions == 0 {
		return "No sessions recorded yet"
	}
	return fmt.Sprintf("Overall: %d total sessions, %d days active, %s focus",
		overall.Sessions, overall.DaysActive, history.FormatTotal(overall.FocusSeconds))
}

// activeDaysText lists the newest days with sessions, one per line, with
// their session counts.
func activeDaysText(sessions []model.Session, loc *time.Location, limit int) string {
	dates := history.DatesWithSessions(sessions, loc)
	if len(dates) == 0 {
		return "none"
	}
	counts := history.CountByDate(sessions, loc)
	lines := make([]string, 0, limit)
	for i := len(dates) - 1; i >= 0 && len(lines) < limit; i-- {
		date := dates[i]
		lines = append(lines, fmt.Sprintf("%s  (%d)", date.Format("Mon 2 Jan"), counts[date.Format(history.DateLayout)]))
	}
	return strings.Join(lines, "\n")
}
