package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/companion/pkg/suggest"
	"github.com/spf13/cobra"
)

func NewSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <intent...>",
		Short: "Suggest a shell command for a plain-language intent",
		Long: `Suggest a shell command for a plain-language intent. The command is
printed, never run.

Examples:
  companion suggest list files
  companion suggest show git status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := suggest.Suggest(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, map[string]string{"command": command})
			}
			fmt.Fprintln(cmd.OutOrStdout(), command)
			return nil
		},
	}
}
