package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/git"
	"github.com/grovetools/companion/pkg/models"
	"github.com/grovetools/companion/pkg/workspace"
	"github.com/grovetools/companion/tui"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/grovetools/companion/tui/projects"
	"github.com/grovetools/companion/tui/theme"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewProjectsCmd creates the `projects` command.
func NewProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage project folders and start agent sessions in them",
	}
	cmd.AddCommand(
		newProjectsListCmd(),
		newProjectsAddCmd(),
		newProjectsEditCmd(),
		newProjectsRemoveCmd(),
		newProjectsPinCmd(),
		newProjectsStartCmd(),
		newProjectsOpenCmd(),
		newProjectsPickCmd(),
		newProjectsCommandsCmd(),
	)
	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects, pinned first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			list, err := a.projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet. Add one with: companion projects add <path>")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{
					pinMark(p.Pinned),
					p.Name,
					p.Path,
					branchOf(p),
					string(p.Agent),
					string(p.Editor),
					formatTime(p.LastActive),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.SimpleTable(
				[]string{"", "NAME", "PATH", "BRANCH", "AGENT", "EDITOR", "LAST ACTIVE"}, rows))
			return nil
		}),
	}
}

func newProjectsAddCmd() *cobra.Command {
	var name, agent, editor string
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a folder as a project",
		Long: `Add a folder as a project. The name defaults to the folder name and git
repositories are detected automatically.

Examples:
  companion projects add ~/code/api
  companion projects add . --agent claude --editor cursor`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			opts := workspace.AddOptions{Name: name}
			var err error
			if opts.Agent, err = models.ParseAgent(agent); err != nil {
				return err
			}
			if opts.Editor, err = models.ParseEditor(editor); err != nil {
				return err
			}
			if opts.Agent == models.AgentNone {
				return errors.InvalidInput("agent 'None' is only valid on sessions")
			}

			project, err := a.projects.Add(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, project)
			}
			notify(cmd).Success(fmt.Sprintf("Added project '%s'", project.Name))
			if !project.IsGit && git.IsGitRepo(project.Path) {
				if root, err := git.GetGitRoot(project.Path); err == nil {
					notify(cmd).WarnPretty(fmt.Sprintf("Folder is inside the git repository at %s", root))
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Project name (default: folder name)")
	cmd.Flags().StringVar(&agent, "agent", "", "Agent: Gemini, Claude, SuperClaude, OpenRouter, Claude Code Router")
	cmd.Flags().StringVar(&editor, "editor", "", "Editor: VSCode, Cursor, Ghostty")
	return cmd
}

func newProjectsEditCmd() *cobra.Command {
	var name, path, agent, editor string
	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Change a project's name, folder, agent or editor",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			var opts workspace.EditOptions
			flags := cmd.Flags()
			if flags.Changed("name") {
				opts.Name = &name
			}
			if flags.Changed("path") {
				opts.Path = &path
			}
			if flags.Changed("agent") {
				parsed, err := models.ParseAgent(agent)
				if err != nil {
					return err
				}
				opts.Agent = &parsed
			}
			if flags.Changed("editor") {
				parsed, err := models.ParseEditor(editor)
				if err != nil {
					return err
				}
				opts.Editor = &parsed
			}

			project, err := a.projects.Edit(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, project)
			}
			notify(cmd).Success(fmt.Sprintf("Updated project '%s'", project.Name))
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&path, "path", "", "New project folder")
	cmd.Flags().StringVar(&agent, "agent", "", "Agent (empty clears it)")
	cmd.Flags().StringVar(&editor, "editor", "", "Editor (empty clears it)")
	return cmd
}

func newProjectsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path>",
		Aliases: []string{"rm"},
		Short:   "Forget a project (the folder is left alone)",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			project, err := a.projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.projects.Remove(cmd.Context(), project.Path); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Removed project '%s'", project.Name))
			return nil
		}),
	}
}

func newProjectsPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <path>",
		Short: "Pin or unpin a project",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			project, err := a.projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			project, err = a.projects.TogglePin(cmd.Context(), project.Path)
			if err != nil {
				return err
			}
			state := "Unpinned"
			if project.Pinned {
				state = "Pinned"
			}
			notify(cmd).Success(fmt.Sprintf("%s project '%s'", state, project.Name))
			return nil
		}),
	}
}

func newProjectsStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <path>",
		Short: "Start an agent session in a project",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return startSession(cmd, a, args[0])
		}),
	}
}

// startSession records and launches a session, then reports the outcome.
func startSession(cmd *cobra.Command, a *app, path string) error {
	project, err := a.projects.Get(cmd.Context(), path)
	if err != nil {
		return err
	}
	session, err := a.sessions.Start(cmd.Context(), project.Path)
	if err != nil {
		if session.ID != "" {
			notify(cmd).WarnPretty(fmt.Sprintf("Session %s was recorded but its launch failed", session.ID))
		}
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(cmd, session)
	}
	notify(cmd).Success(fmt.Sprintf("Started session in %s", project.Name))
	notify(cmd).Field("session", session.ID)
	return nil
}

func newProjectsOpenCmd() *cobra.Command {
	var editor string
	cmd := &cobra.Command{
		Use:   "open <path>",
		Short: "Open a project in its editor",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			project, err := a.projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			chosen := project.Editor
			if editor != "" {
				if chosen, err = models.ParseEditor(editor); err != nil {
					return err
				}
			}
			if chosen == "" {
				return errors.InvalidInput(fmt.Sprintf("project '%s' has no editor; pass --editor", project.Name))
			}
			if err := a.launcher.OpenEditor(cmd.Context(), string(chosen), project.Path); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Opened %s in %s", project.Name, chosen))
			return nil
		}),
	}
	cmd.Flags().StringVar(&editor, "editor", "", "Editor to use instead of the project's")
	return cmd
}

func newProjectsPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a project interactively and start a session",
		Long: `Opens the project picker. Keys: enter starts a session, p pins or
unpins, x removes, / filters, q quits.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
				return errors.InvalidInput("the project picker needs an interactive terminal")
			}
			tui.InitializeTUI()

			model := projects.New(cmd.Context(), a.projects)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "project picker failed")
			}
			picked, ok := final.(*projects.Model)
			if !ok || picked.Selected == nil {
				return nil
			}
			return startSession(cmd, a, picked.Selected.Path)
		}),
	}
}

func newProjectsCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands <path> [command...]",
		Short: "Set the SuperClaude commands enabled for a project",
		Long: `Replaces the project's enabled SuperClaude commands. With no commands
the list is cleared.

Examples:
  companion projects commands ~/code/api analyze load-context`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			project, err := a.projects.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			project, err = a.projects.SetCommands(cmd.Context(), project.Path, args[1:])
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, project)
			}
			if len(project.SuperClaudeCommands) == 0 {
				notify(cmd).Success(fmt.Sprintf("Cleared commands of '%s'", project.Name))
				return nil
			}
			notify(cmd).Success(fmt.Sprintf("Commands of '%s': %s", project.Name, strings.Join(project.SuperClaudeCommands, ", ")))
			return nil
		}),
	}
}

// branchOf returns the checked out branch of a git project, or "".
func branchOf(p models.Project) string {
	if !p.IsGit {
		return ""
	}
	branch, err := git.CurrentBranch(p.Path)
	if err != nil {
		return ""
	}
	return branch
}

func pinMark(pinned bool) string {
	if !pinned {
		return ""
	}
	return theme.DefaultTheme.Pinned.Render(theme.Icons.Pinned)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
