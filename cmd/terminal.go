package cmd

import (
	"os"

	"github.com/grovetools/companion/cli"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/launch"
	"github.com/grovetools/companion/util/pathutil"
	"github.com/spf13/cobra"
)

func NewTerminalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminal [path]",
		Short: "Open a terminal in a directory (default: current directory)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := pathutil.Expand(dir)
			if err != nil {
				return errors.InvalidInput(err.Error())
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return errors.NotADirectory(dir)
			}

			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			if err := launch.New(cfg.Launch, nil).OpenTerminal(cmd.Context(), dir); err != nil {
				return err
			}
			notify(cmd).Success("Opened terminal")
			notify(cmd).Path("directory", dir)
			return nil
		},
	}
}
