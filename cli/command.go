package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/logging"
	"github.com/spf13/cobra"
)

// CommandOptions holds the persistent flags every companion command accepts.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a root command carrying the standard flags.
// The flags are applied to the environment before any subcommand runs.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ApplyOptions(GetOptions(cmd))
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to companion.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// ApplyOptions exports --config and --verbose to the environment read by
// the config and logging packages, and drops cached loggers.
func ApplyOptions(opts CommandOptions) error {
	if opts.ConfigFile != "" {
		if err := os.Setenv(config.EnvConfigPath, opts.ConfigFile); err != nil {
			return err
		}
	}
	if opts.Verbose {
		if err := os.Setenv("COMPANION_LOG_LEVEL", "debug"); err != nil {
			return err
		}
	}
	logging.Reset()
	return nil
}

// LoadConfig loads the configuration selected by the flags.
func LoadConfig() (*config.Config, error) {
	return config.LoadDefault()
}

// PrintJSON writes v as indented JSON followed by a newline.
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
