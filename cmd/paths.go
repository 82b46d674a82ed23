package cmd

import (
	"fmt"

	"github.com/grovetools/companion/cli"
	"github.com/grovetools/companion/pkg/paths"
	"github.com/grovetools/companion/pkg/router"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/spf13/cobra"
)

// PathsOutput lists the locations companion reads and writes.
type PathsOutput struct {
	ConfigDir    string `json:"config_dir"`
	DataDir      string `json:"data_dir"`
	StateDir     string `json:"state_dir"`
	LogDir       string `json:"log_dir"`
	Database     string `json:"database"`
	RouterConfig string `json:"router_config"`
	RouterLog    string `json:"router_log"`
}

func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the directories and files used by companion",
		Long: `Print the directories and files used by companion.

The directories follow the XDG Base Directory Specification:
- config_dir: companion.yml
- data_dir: the record store
- state_dir: pid files and the installed session script
- log_dir: log files`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig()
			if err != nil {
				return err
			}
			ctl := router.NewController(cfg.Router, nil)
			output := PathsOutput{
				ConfigDir:    paths.ConfigDir(),
				DataDir:      paths.DataDir(),
				StateDir:     paths.StateDir(),
				LogDir:       paths.LogDir(),
				Database:     paths.DatabasePath(),
				RouterConfig: ctl.ConfigPath(),
				RouterLog:    ctl.LogPath(),
			}
			if cfg.Store.Path != "" {
				output.Database = cfg.Store.Path
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, output)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.StatusTable([][2]string{
				{"config", output.ConfigDir},
				{"data", output.DataDir},
				{"state", output.StateDir},
				{"logs", output.LogDir},
				{"database", output.Database},
				{"router config", output.RouterConfig},
				{"router log", output.RouterLog},
			}))
			return nil
		},
	}
}
