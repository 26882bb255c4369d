package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ihildy/weekhours/internal/api"
	"github.com/ihildy/weekhours/internal/exchange"
	"github.com/ihildy/weekhours/internal/output"
	"github.com/ihildy/weekhours/internal/store"
	"github.com/ihildy/weekhours/internal/week"

	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "View, edit and sync the current week",
	}
	cmd.AddCommand(newWeekShowCmd(app))
	cmd.AddCommand(newWeekPullCmd(app))
	cmd.AddCommand(newWeekSaveCmd(app))
	cmd.AddCommand(newWeekHistoryCmd(app))
	cmd.AddCommand(newWeekResetCmd(app))
	cmd.AddCommand(newWeekSetCmd(app))
	cmd.AddCommand(newWeekAddSessionCmd(app))
	cmd.AddCommand(newWeekRemoveSessionCmd(app))
	cmd.AddCommand(newWeekExportCmd(app))
	cmd.AddCommand(newWeekImportCmd(app))
	return cmd
}

func (a *App) writeDraft(op string, d store.Draft, extra map[string]any) error {
	return a.writeWeek(op, d.WeekStart, d.Week, "", extra)
}

func (a *App) writeWeek(op, weekStart string, w week.Week, note string, extra map[string]any) error {
	payload := map[string]any{
		"ok":        true,
		"operation": op,
		"week":      output.SummarizeWeek(weekStart, w, a.Cfg.WeeklyGoalHours),
	}
	for k, v := range extra {
		payload[k] = v
	}
	human := output.RenderWeek(weekStart, w, a.Cfg.WeeklyGoalHours, output.ColorEnabled(a.Stdout))
	if note != "" {
		human = note + "\n\n" + human
	}
	return output.Write(a.Stdout, a.JSONOutput, human, payload)
}

func newWeekShowCmd(app *App) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the local week draft, or the backend copy with --remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			if remote {
				rec, err := env.Client.GetCurrentWeek(ctx)
				if err != nil {
					return err
				}
				w := rec.WeekData
				if len(w) == 0 {
					w = week.NewEmptyWeek()
				}
				return app.writeWeek("week_show", rec.WeekStartDate, w, "", map[string]any{"source": "remote", "record_id": rec.ID})
			}

			d, err := env.Sync.Draft(ctx)
			if err != nil {
				return err
			}
			return app.writeDraft("week_show", d, map[string]any{"source": "local", "record_id": d.RecordID})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch the week from the backend instead of the local draft")
	return cmd
}

func newWeekPullCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local draft with the backend's current week",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, replaced, err := env.Sync.Pull(ctx)
			if err != nil {
				return err
			}
			note := "Loaded week of " + d.WeekStart
			if !replaced {
				note = "Backend has no data for this week yet; local draft kept"
			}
			return app.writeWeek("week_pull", d.WeekStart, d.Week, note, map[string]any{"replaced": replaced})
		},
	}
}

func newWeekSaveCmd(app *App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Push the local draft to the backend and reload it",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			if dryRun {
				d, err := env.Sync.Draft(ctx)
				if err != nil {
					return err
				}
				return app.writeWeek("week_save", d.WeekStart, d.Week, "Dry run: this week would be saved", map[string]any{"dry_run": true})
			}

			d, err := env.Sync.Save(ctx)
			if err != nil {
				return err
			}
			return app.writeWeek("week_save", d.WeekStart, d.Week, "Saved successfully!", map[string]any{"dry_run": false, "record_id": d.RecordID})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be saved without calling the backend")
	return cmd
}

func newWeekHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previously saved weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			records, err := env.Sync.History(ctx)
			if err != nil {
				return err
			}
			payload := map[string]any{
				"ok":        true,
				"operation": "week_history",
				"weeks":     historySummaries(records, app.Cfg.WeeklyGoalHours),
			}
			return output.Write(app.Stdout, app.JSONOutput, formatHistoryHuman(records), payload)
		},
	}
}

func historySummaries(records []api.WeekRecord, goal float64) []output.WeekSummary {
	out := make([]output.WeekSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, output.SummarizeWeek(rec.WeekStartDate, rec.WeekData, goal))
	}
	return out
}

func formatHistoryHuman(records []api.WeekRecord) string {
	if len(records) == 0 {
		return "No saved weeks"
	}
	var b strings.Builder
	for i, rec := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %6.2f hours", rec.WeekStartDate, week.TotalHours(rec.WeekData))
		if rec.UpdatedAt != "" {
			fmt.Fprintf(&b, "  (updated %s)", rec.UpdatedAt)
		}
	}
	return b.String()
}

func newWeekResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the local draft and start from an empty week",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirmAction(app, "Discard all local edits for this week?", yes); err != nil {
				return err
			}
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Sync.ResetDraft(ctx)
			if err != nil {
				return err
			}
			return app.writeWeek("week_reset", d.WeekStart, d.Week, "Local draft reset", nil)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation")
	return cmd
}

func newWeekSetCmd(app *App) *cobra.Command {
	var day string
	var session int
	var checkIn, checkOut string

	cmd := &cobra.Command{
		Use:   "set --day <day> [--session N] [--in HH:MM] [--out HH:MM]",
		Short: "Set the check-in or check-out time of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIdx, err := parseDayArg(day)
			if err != nil {
				return err
			}
			sessionIdx, err := parseSessionArg(session)
			if err != nil {
				return err
			}
			inSet, outSet := cmd.Flags().Changed("in"), cmd.Flags().Changed("out")
			if !inSet && !outSet {
				return fmt.Errorf("pass --in and/or --out")
			}
			in, err := parseTimeArg("in", checkIn)
			if err != nil {
				return err
			}
			out, err := parseTimeArg("out", checkOut)
			if err != nil {
				return err
			}

			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Sync.Draft(ctx)
			if err != nil {
				return err
			}
			if !hasSession(d.Week, dayIdx, sessionIdx) {
				return fmt.Errorf("%s has no session %d", week.DaysOfWeek[dayIdx], session)
			}

			d, _, err = env.Sync.Edit(ctx, func(w week.Week) (week.Week, bool) {
				changed := false
				if inSet {
					w, changed = w.UpdateSession(dayIdx, sessionIdx, week.FieldCheckIn, in)
				}
				if outSet {
					var ok bool
					w, ok = w.UpdateSession(dayIdx, sessionIdx, week.FieldCheckOut, out)
					changed = changed || ok
				}
				return w, changed
			})
			if err != nil {
				return err
			}
			return app.writeWeek("week_set", d.WeekStart, d.Week, week.FormatDayHuman(d.Week[dayIdx]), nil)
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Weekday name or YYYY-MM-DD")
	cmd.Flags().IntVar(&session, "session", 1, "Session number within the day, starting at 1")
	cmd.Flags().StringVar(&checkIn, "in", "", "Check-in time HH:MM (24h); empty clears it")
	cmd.Flags().StringVar(&checkOut, "out", "", "Check-out time HH:MM (24h); empty clears it")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func newWeekAddSessionCmd(app *App) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "add-session --day <day>",
		Short: "Append an empty session to a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIdx, err := parseDayArg(day)
			if err != nil {
				return err
			}
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, _, err := env.Sync.Edit(ctx, func(w week.Week) (week.Week, bool) { return w.AddSession(dayIdx) })
			if err != nil {
				return err
			}
			note := fmt.Sprintf("Added session %d to %s", len(d.Week[dayIdx].Sessions), d.Week[dayIdx].Day)
			return app.writeWeek("week_add_session", d.WeekStart, d.Week, note, nil)
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Weekday name or YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func newWeekRemoveSessionCmd(app *App) *cobra.Command {
	var day string
	var session int
	cmd := &cobra.Command{
		Use:   "remove-session --day <day> --session N",
		Short: "Remove one session from a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIdx, err := parseDayArg(day)
			if err != nil {
				return err
			}
			sessionIdx, err := parseSessionArg(session)
			if err != nil {
				return err
			}
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, changed, err := env.Sync.Edit(ctx, func(w week.Week) (week.Week, bool) { return w.RemoveSession(dayIdx, sessionIdx) })
			if err != nil {
				return err
			}
			if !changed {
				return fmt.Errorf("%s has no session %d", week.DaysOfWeek[dayIdx], session)
			}
			note := fmt.Sprintf("Removed session %d from %s", session, d.Week[dayIdx].Day)
			return app.writeWeek("week_remove_session", d.WeekStart, d.Week, note, nil)
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Weekday name or YYYY-MM-DD")
	cmd.Flags().IntVar(&session, "session", 0, "Session number within the day, starting at 1")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func newWeekExportCmd(app *App) *cobra.Command {
	var outPath, formatName string
	cmd := &cobra.Command{
		Use:   "export [--out FILE] [--format json|yaml|toml]",
		Short: "Write the local draft to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(formatName, outPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Sync.Draft(ctx)
			if err != nil {
				return err
			}
			doc := exchange.NewDocument(d.WeekStart, d.Week)

			if outPath == "" || outPath == "-" {
				return exchange.Export(app.Stdout, format, doc)
			}
			f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			if err := exchange.Export(f, format, doc); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close export file: %w", err)
			}
			payload := map[string]any{"ok": true, "operation": "week_export", "path": outPath, "format": format, "week_start": d.WeekStart}
			human := fmt.Sprintf("Exported week of %s to %s", d.WeekStart, outPath)
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Output file; stdout when empty or -")
	cmd.Flags().StringVar(&formatName, "format", "", "json, yaml or toml; inferred from --out when omitted")
	return cmd
}

func newWeekImportCmd(app *App) *cobra.Command {
	var inPath, formatName string
	var yes bool
	cmd := &cobra.Command{
		Use:   "import --file FILE [--format json|yaml|toml]",
		Short: "Replace the local draft with a week file",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveFormat(formatName, inPath)
			if err != nil {
				return err
			}
			var r io.Reader = app.Stdin
			if inPath != "-" {
				f, err := os.Open(inPath)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				r = f
			}
			doc, err := exchange.Import(r, format)
			if err != nil {
				return err
			}
			if err := confirmAction(app, "Replace the local draft with the imported week?", yes); err != nil {
				return err
			}

			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			d, err := env.Sync.ReplaceDraft(ctx, "", doc.Days)
			if err != nil {
				return err
			}
			note := fmt.Sprintf("Imported %s; run `weekhours week save` to push it", inPath)
			if doc.WeekStart != "" && doc.WeekStart != d.WeekStart {
				note = fmt.Sprintf("Imported %s (week of %s) into the week of %s; run `weekhours week save` to push it", inPath, doc.WeekStart, d.WeekStart)
			}
			return app.writeWeek("week_import", d.WeekStart, d.Week, note, map[string]any{"path": inPath})
		},
	}
	cmd.Flags().StringVar(&inPath, "file", "", "Week file to import, or - for stdin")
	cmd.Flags().StringVar(&formatName, "format", "", "json, yaml or toml; inferred from --file when omitted")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func resolveFormat(name, path string) (exchange.Format, error) {
	if name != "" {
		return exchange.ParseFormat(name)
	}
	if path == "" || path == "-" {
		return exchange.FormatJSON, nil
	}
	return exchange.FormatFromPath(path)
}

func hasSession(w week.Week, day, session int) bool {
	return day >= 0 && day < len(w) && session >= 0 && session < len(w[day].Sessions)
}
