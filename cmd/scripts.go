package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/companion/pkg/scripts"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/spf13/cobra"
)

// NewScriptsCmd creates the `scripts` command.
func NewScriptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scripts",
		Aliases: []string{"script"},
		Short:   "Catalogue helper scripts",
	}
	cmd.AddCommand(newScriptsListCmd(), newScriptsAddCmd(), newScriptsRemoveCmd(), newScriptsPinCmd())
	return cmd
}

func newScriptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List scripts, pinned first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.scripts.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scripts yet. Add one with: companion scripts add <path>")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, s := range list {
				rows = append(rows, []string{
					pinMark(s.Pinned),
					s.ID,
					s.Name,
					string(s.Language),
					s.Path,
					strings.Join(s.Tags, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable(
				[]string{"", "ID", "NAME", "LANGUAGE", "PATH", "TAGS"}, rows))
			return nil
		}),
	}
}

func newScriptsAddCmd() *cobra.Command {
	var opts scripts.AddOptions
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a script file; its language is taken from the extension",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			script, err := a.scripts.Add(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, script)
			}
			notify(cmd).Success(fmt.Sprintf("Added %s script '%s'", script.Language, script.Name))
			notify(cmd).Field("id", script.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&opts.Name, "name", "", "Script name (default: file name)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "What the script does")
	cmd.Flags().StringSliceVar(&opts.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Projects, "project", nil, "Associated project path (repeatable)")
	return cmd
}

func newScriptsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Forget a script (the file is left alone)",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if err := a.scripts.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			notify(cmd).Success("Script removed")
			return nil
		}),
	}
}

func newScriptsPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Pin or unpin a script",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			s, err := a.scripts.TogglePin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "Unpinned"
			if s.Pinned {
				state = "Pinned"
			}
			notify(cmd).Success(fmt.Sprintf("%s script '%s'", state, s.Name))
			return nil
		}),
	}
}
