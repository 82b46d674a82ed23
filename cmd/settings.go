package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/spf13/cobra"
)

// NewSettingsCmd creates the `settings` command.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change preferences",
	}
	cmd.AddCommand(newSettingsShowCmd(), newSettingsSetCmd(), newSettingsAckCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := a.settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, s)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.StatusTable([][2]string{
				{"superclaude_path", s.SuperClaudePath},
				{"default_editor", s.DefaultEditor},
				{"tos_acknowledged", strings.Join(s.TOSAcknowledged, ", ")},
			}))
			return nil
		}),
	}
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value...>",
		Short: "Set superclaude_path or default_editor",
		Long: `Set a preference. An empty value restores the default.

Examples:
  companion settings set superclaude_path ~/.local/bin/superclaude
  companion settings set default_editor cursor`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			value := strings.Join(args[1:], " ")
			if _, err := a.settings.Set(cmd.Context(), args[0], value); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Saved %s", args[0]))
			return nil
		}),
	}
}

func newSettingsAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ack <tool>",
		Short:     "Acknowledge the terms of service of a tool",
		Args:      cobra.ExactArgs(1),
		ValidArgs: models.TOSTools,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if _, err := a.settings.Acknowledge(cmd.Context(), args[0]); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Acknowledged terms of %s", strings.ToLower(args[0])))
			return nil
		}),
	}
}
