package cmd

import (
	"fmt"
	"strings"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/spf13/cobra"
)

// NewSuperClaudeCmd creates the `superclaude` command.
func NewSuperClaudeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "superclaude",
		Aliases: []string{"sc"},
		Short:   "Inspect and run the SuperClaude CLI",
	}
	cmd.AddCommand(newSuperClaudeInfoCmd(), newSuperClaudeRunCmd())
	return cmd
}

// probe resolves the SuperClaude CLI using the configured path.
func probe(cmd *cobra.Command, a *app) (models.ToolInfo, error) {
	s, err := a.settings.Get(cmd.Context())
	if err != nil {
		return models.ToolInfo{}, err
	}
	return a.prober.Probe(cmd.Context(), s.SuperClaudePath), nil
}

func newSuperClaudeInfoCmd() *cobra.Command {
	var projectPath string
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where SuperClaude is installed and which commands it exposes",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			info, err := probe(cmd, a)
			if err != nil {
				return err
			}
			var enabled []string
			if projectPath != "" {
				project, err := a.projects.Get(cmd.Context(), projectPath)
				if err != nil {
					return err
				}
				enabled = project.SuperClaudeCommands
			}
			if jsonOutput(cmd) {
				if projectPath != "" {
					return printJSON(cmd, struct {
						models.ToolInfo
						ProjectCommands []string `json:"project_commands"`
					}{info, enabled})
				}
				return printJSON(cmd, info)
			}
			if !info.Detected {
				notify(cmd).WarnPretty("SuperClaude not found")
				fmt.Fprintln(cmd.OutOrStdout(), "Set its location with: companion settings set superclaude_path <path>")
				return nil
			}
			source := string(info.Source)
			if info.BestEffort {
				source += " (best effort)"
			}
			rows := [][2]string{
				{"path", info.CLIPath},
				{"source", source},
				{"commands", strings.Join(info.CommandsExposed, ", ")},
				{"project actions", strings.Join(info.ProjectActions, ", ")},
			}
			if projectPath != "" {
				rows = append(rows, [2]string{"enabled for project", strings.Join(enabled, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.StatusTable(rows))
			return nil
		}),
	}
	cmd.Flags().StringVar(&projectPath, "project", "", "Also show the commands enabled for this project")
	return cmd
}

func newSuperClaudeRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run a SuperClaude command",
		Long: `Runs a SuperClaude subcommand and prints its output.

Examples:
  companion superclaude run analyze --deep`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			info, err := probe(cmd, a)
			if err != nil {
				return err
			}
			if !info.Detected {
				return errors.CommandNotFound("superclaude")
			}

			result, err := a.launcher.RunTool(cmd.Context(), info.CLIPath, args[0], args[1:]...)
			if result.Stdout != "" {
				fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
			}
			if err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("superclaude %s finished", args[0]))
			return nil
		}),
	}
}
