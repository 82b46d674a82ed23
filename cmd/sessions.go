package cmd

import (
	"fmt"

	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/grovetools/companion/tui/theme"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the `sessions` command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "s"},
		Short:   "List and control agent sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(),
		newSessionsNewCmd(),
		newSessionsToggleCmd(),
		newSessionsEndCmd(),
		newSessionsRemoveCmd(),
	)
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions, most recent first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			filter := ""
			if project != "" {
				p, err := a.projects.Get(cmd.Context(), project)
				if err != nil {
					return err
				}
				filter = p.Path
			}
			list, err := a.sessions.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions.")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				end := "-"
				if s.EndTime != nil {
					end = formatTime(*s.EndTime)
				}
				rows = append(rows, []string{
					sessionMark(s),
					s.ID,
					s.ProjectID,
					string(s.Agent),
					formatTime(s.StartTime),
					end,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable(
				[]string{"", "ID", "PROJECT", "AGENT", "STARTED", "ENDED"}, rows))
			return nil
		}),
	}
	cmd.Flags().StringVar(&project, "project", "", "Only sessions of this project path")
	return cmd
}

func newSessionsNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <project-path>",
		Short: "Start a session in a project",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return startSession(cmd, a, args[0])
		}),
	}
}

func newSessionsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Stop an active session or resume a stopped one",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := a.sessions.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if s.Active {
				notify(cmd).Success("Session resumed")
			} else {
				notify(cmd).Success("Session stopped")
			}
			return nil
		}),
	}
}

func newSessionsEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "Mark a session as finished",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if _, err := a.sessions.End(cmd.Context(), args[0]); err != nil {
				return err
			}
			notify(cmd).Success("Session ended")
			return nil
		}),
	}
}

func newSessionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a session record",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.sessions.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			notify(cmd).Success("Session removed")
			return nil
		}),
	}
}

func sessionMark(s models.Session) string {
	if s.Active {
		return theme.DefaultTheme.Success.Render(theme.Icons.Active)
	}
	return theme.DefaultTheme.Muted.Render(theme.Icons.Ended)
}
