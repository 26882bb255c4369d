package cli

import (
	"context"
	"fmt"

	"github.com/ihildy/weekhours/internal/output"
	"github.com/ihildy/weekhours/internal/tui"
	"github.com/ihildy/weekhours/internal/week"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var pull bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the week in an interactive editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive() {
				return fmt.Errorf("edit needs an interactive terminal; use `weekhours week set` instead")
			}
			ctx := context.Background()
			env, err := app.newWeekEnv()
			if err != nil {
				return err
			}
			defer env.Close()

			if pull {
				if _, _, err := env.Sync.Pull(ctx); err != nil {
					app.warnf("failed to load week data: %v", err)
				}
			}
			d, err := env.Sync.Draft(ctx)
			if err != nil {
				return err
			}

			save := func(ctx context.Context, w week.Week) (week.Week, error) {
				confirmed, err := env.Sync.SaveWeek(ctx, d.WeekStart, w)
				if err != nil {
					return nil, err
				}
				return confirmed.Week, nil
			}
			final, err := tui.Run(tui.NewModel(d.Week, d.WeekStart, app.Cfg.WeeklyGoalHours, save))
			if err != nil {
				return err
			}

			if final.Dirty() {
				d, err = env.Sync.ReplaceDraft(ctx, d.WeekStart, final.Week())
				if err != nil {
					return err
				}
				human := fmt.Sprintf("Unsaved edits kept in the local draft (%.2f hours); run `weekhours week save` to push them", week.TotalHours(d.Week))
				payload := map[string]any{"ok": true, "operation": "edit", "pending_edits": true, "week": output.SummarizeWeek(d.WeekStart, d.Week, app.Cfg.WeeklyGoalHours)}
				return output.Write(app.Stdout, app.JSONOutput, human, payload)
			}
			d, err = env.Sync.Draft(ctx)
			if err != nil {
				return err
			}
			payload := map[string]any{"ok": true, "operation": "edit", "pending_edits": false, "week": output.SummarizeWeek(d.WeekStart, d.Week, app.Cfg.WeeklyGoalHours)}
			return output.Write(app.Stdout, app.JSONOutput, fmt.Sprintf("Week of %s: %.2f hours", d.WeekStart, week.TotalHours(d.Week)), payload)
		},
	}
	cmd.Flags().BoolVar(&pull, "pull", false, "Replace the local draft with the backend's current week before editing")
	return cmd
}
