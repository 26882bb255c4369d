package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ihildy/weekhours/internal/output"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI config",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetBaseURLCmd(app))
	cmd.AddCommand(newConfigSetGoalCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"ok":                  true,
				"operation":           "config_show",
				"config_path":         app.CfgPath,
				"base_url":            app.BaseURL(),
				"weekly_goal_hours":   app.Cfg.WeeklyGoalHours,
				"database_path":       app.databasePath(),
				"json_output_default": app.Cfg.Output.JSONDefault,
			}
			human := fmt.Sprintf("Config:      %s\nBase URL:    %s\nWeekly goal: %.0f hours\nDatabase:    %s",
				app.CfgPath, app.BaseURL(), app.Cfg.WeeklyGoalHours, app.databasePath())
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
}

func newConfigSetBaseURLCmd(app *App) *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "set-base-url --url <api_base_url>",
		Short: "Set the backend API base URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := normalizeBaseURL(raw)
			if err != nil {
				return err
			}
			app.Cfg.BaseURL = baseURL
			if err := app.SaveConfig(); err != nil {
				return err
			}
			payload := map[string]any{"ok": true, "operation": "config_set_base_url", "base_url": baseURL, "config_path": app.CfgPath}
			human := fmt.Sprintf("Base URL set to %s", baseURL)
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
	cmd.Flags().StringVar(&raw, "url", "", "API base URL, e.g. http://localhost:8000/api")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newConfigSetGoalCmd(app *App) *cobra.Command {
	var hours float64
	cmd := &cobra.Command{
		Use:   "set-goal --hours <weekly_goal>",
		Short: "Set the weekly hours goal shown next to the total",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hours <= 0 {
				return fmt.Errorf("--hours must be > 0")
			}
			app.Cfg.WeeklyGoalHours = hours
			if err := app.SaveConfig(); err != nil {
				return err
			}
			payload := map[string]any{"ok": true, "operation": "config_set_goal", "weekly_goal_hours": hours, "config_path": app.CfgPath}
			human := fmt.Sprintf("Weekly goal set to %.0f hours", hours)
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
	cmd.Flags().Float64Var(&hours, "hours", 0, "Weekly goal in hours")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid base URL %q: expected http(s)://host[/path]", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
