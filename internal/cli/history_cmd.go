package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"tomodoro/internal/core/history"
	"tomodoro/internal/core/model"

	"github.com/spf13/cobra"
)

func newHistoryCmd(s *session) *cobra.Command {
	var date string
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded focus sessions",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			from, to, err := historyRange(date, days, time.Now())
			if err != nil {
				return err
			}

			sessions, err := s.app.Sessions.ListBetween(cmd.Context(), from, to)
			if err != nil {
				return err
			}

			all, err := s.app.Sessions.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				printf(out, "No sessions found.\n")
			}
			for _, day := range history.Days(sessions, time.Local) {
				table := renderTable([]string{"START", "END", "MODE", "DURATION"}, sessionRows(day.Sessions))
				printf(out, "%s", renderBox(day.Date.Format("Mon 2006-01-02"), table+"\n"+styleDim.Render(summaryLine(day.Summary))))
			}
			if len(all) > 0 {
				printf(out, "%s\n", styleDim.Render(overallLine(history.Overview(all, time.Local))))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&date, "date", "", "Show a single day (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 7, "Number of recent days to show")

	cmd.AddCommand(
		newHistoryExportCmd(s),
		newHistoryImportCmd(s),
	)

	return cmd
}

func newHistoryExportCmd(s *session) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session log as JSON",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			sessions, err := s.app.Sessions.List(cmd.Context())
			if err != nil {
				return err
			}
			if sessions == nil {
				sessions = []model.Session{}
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating export file: %w", err)
				}
				defer file.Close()
				w = file
			}

			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(sessions); err != nil {
				return fmt.Errorf("encoding sessions: %w", err)
			}
			if outPath != "" {
				printf(cmd.OutOrStdout(), "Exported %d sessions to %s\n", len(sessions), outPath)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func newHistoryImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append sessions from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: s.run(func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			var sessions []model.Session
			if err := json.Unmarshal(raw, &sessions); err != nil {
				return fmt.Errorf("parsing import file: %w", err)
			}

			count, err := s.app.Sessions.Import(cmd.Context(), sessions)
			if err != nil {
				return err
			}
			total, err := s.app.Sessions.Count(cmd.Context())
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Imported %d sessions (%d in the log)\n", count, total)
			return nil
		}),
	}
}

// historyRange returns the [from, to) interval selected by the flags.
func historyRange(date string, days int, now time.Time) (time.Time, time.Time, error) {
	if date != "" {
		day, err := time.ParseInLocation(history.DateLayout, date, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
		}
		from, to := history.DayBounds(day)
		return from, to, nil
	}
	if days < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("--days must be at least 1, got %d", days)
	}
	today, tomorrow := history.DayBounds(now)
	return today.AddDate(0, 0, -(days - 1)), tomorrow, nil
}

func sessionRows(sessions []model.Session) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		end := styleDim.Render("-")
		if session.EndTime != nil {
			end = session.EndTime.Local().Format("15:04")
		}
		rows = append(rows, []string{
			session.StartTime.Local().Format("15:04"),
			end,
			session.Mode.Title(),
			styleGreen.Render(history.FormatClock(session.Duration)),
		})
	}
	return rows
}

func summaryLine(summary history.Summary) string {
	return fmt.Sprintf("%s, %s", plural(summary.Sessions, "session"), history.FormatTotal(summary.FocusSeconds))
}

func overallLine(overall history.Overall) string {
	return fmt.Sprintf("Overall: %s, %s active, %s focus",
		plural(overall.Sessions, "session"), plural(overall.DaysActive, "day"), history.FormatTotal(overall.FocusSeconds))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
