package cmd

import (
	"github.com/grovetools/companion/cli"
	"github.com/grovetools/companion/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the companion command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"companion",
		"Manage Claude Code projects, sessions, scripts and the model router",
	)
	rootCmd.AddCommand(
		NewProjectsCmd(),
		NewSessionsCmd(),
		NewScriptsCmd(),
		NewSettingsCmd(),
		NewSuperClaudeCmd(),
		NewRouterCmd(),
		NewTerminalCmd(),
		NewSuggestCmd(),
		NewConfigCmd(),
		NewPathsCmd(),
		cli.NewVersionCommand("companion"),
	)
	cli.SetVersionTemplate(rootCmd, version.GetInfo())
	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
