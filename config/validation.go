package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/grovetools/companion/errors"
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.ConfigInvalid(fmt.Sprintf("%s failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())).
				WithDetail("field", fe.Namespace())
		}
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid configuration")
	}

	if d, err := time.ParseDuration(c.SuperClaude.ProbeTimeout); err != nil || d <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("superclaude.probe_timeout must be a positive duration, got %q", c.SuperClaude.ProbeTimeout)).
			WithDetail("field", "superclaude.probe_timeout")
	}

	if err := validateArgv("launch.terminal_command", c.Launch.TerminalCommand); err != nil {
		return err
	}
	for editor, argv := range c.Launch.EditorCommands {
		if err := validateArgv("launch.editor_commands."+editor, argv); err != nil {
			return err
		}
	}

	for _, arg := range c.SuperClaude.CapabilitiesArgs {
		if strings.TrimSpace(arg) == "" {
			return errors.ConfigInvalid("superclaude.capabilities_args cannot contain empty arguments")
		}
	}

	return nil
}

// validateArgv requires a program name in front of a launch template.
func validateArgv(field string, argv []string) error {
	if len(argv) == 0 || strings.TrimSpace(argv[0]) == "" {
		return errors.ConfigInvalid(fmt.Sprintf("%s must start with a program name", field)).
			WithDetail("field", field)
	}
	return nil
}
