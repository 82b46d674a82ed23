// Package prober detects the SuperClaude CLI and lists the commands it
// offers. Detection never fails: a missing or broken tool is reported
// through ToolInfo.Detected.
package prober

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/models"
	"github.com/sirupsen/logrus"
)

// helpCommandRegex matches a lowercase token at the start of a line
// followed by whitespace and a word character.
var helpCommandRegex = regexp.MustCompile(`(?m)^[ \t]*([a-z]+)[ \t]+\w`)

// capability is one entry of the structured capability listing.
type capability struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Project     bool   `json:"project,omitempty"`
}

// UnmarshalJSON accepts either a bare command name or an object.
func (c *capability) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = capability{Name: name}
		return nil
	}
	type plain capability
	return json.Unmarshal(data, (*plain)(c))
}

// Prober runs the detection.
type Prober struct {
	cfg     config.SuperClaudeConfig
	builder *command.SafeBuilder
	log     *logrus.Entry
}

// New creates a Prober. A nil builder uses the real executor.
func New(cfg config.SuperClaudeConfig, builder *command.SafeBuilder) *Prober {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	return &Prober{cfg: cfg, builder: builder, log: logging.NewLogger("prober")}
}

// Probe resolves the tool and collects its commands. configuredPath comes
// from settings; when it is empty, or is the untouched default and does not
// resolve, the binary is searched on PATH.
func (p *Prober) Probe(ctx context.Context, configuredPath string) models.ToolInfo {
	info := models.ToolInfo{
		CommandsExposed: []string{},
		ProjectActions:  []string{},
	}

	path, ok := p.resolve(configuredPath)
	if !ok {
		return info
	}
	info.CLIPath = path
	info.Detected = true

	if commands, actions, ok := p.structured(ctx, path); ok {
		info.CommandsExposed = commands
		info.ProjectActions = actions
		info.Source = models.SourceStructured
		return info
	}

	commands, err := p.scrapeHelp(ctx, path)
	if err != nil {
		p.log.WithError(err).WithField("path", path).Warn("Failed to list SuperClaude commands")
		return info
	}
	info.CommandsExposed = commands
	info.Source = models.SourceHelpScrape
	info.BestEffort = true
	return info
}

func (p *Prober) resolve(configuredPath string) (string, bool) {
	lookPath := p.builder.Executor().LookPath

	if configuredPath != "" {
		path, err := lookPath(configuredPath)
		if err == nil {
			return path, true
		}
		p.log.WithField("path", configuredPath).Debug("Configured SuperClaude path is not executable")
		if configuredPath != models.DefaultSuperClaudePath {
			return "", false
		}
	}

	binary := p.cfg.Binary
	if binary == "" {
		binary = "superclaude"
	}
	path, err := lookPath(binary)
	if err != nil {
		p.log.WithField("binary", binary).Debug("SuperClaude not found on PATH")
		return "", false
	}
	return path, true
}

// structured asks the tool for its machine-readable capability list.
func (p *Prober) structured(ctx context.Context, path string) ([]string, []string, bool) {
	if len(p.cfg.CapabilitiesArgs) == 0 {
		return nil, nil, false
	}
	out, err := p.run(ctx, path, p.cfg.CapabilitiesArgs)
	if err != nil {
		p.log.WithError(err).Debug("Structured capability listing unavailable")
		return nil, nil, false
	}

	var listing []capability
	if err := json.Unmarshal([]byte(out), &listing); err != nil {
		p.log.WithError(err).Debug("Capability listing is not a JSON list")
		return nil, nil, false
	}

	commands := []string{}
	actions := []string{}
	seen := make(map[string]bool)
	for _, c := range listing {
		if err := command.ValidateSubcommand(c.Name); err != nil {
			p.log.WithField("name", c.Name).Debug("Skipping invalid capability name")
			continue
		}
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		commands = append(commands, c.Name)
		if c.Project {
			actions = append(actions, c.Name)
		}
	}
	return commands, actions, true
}

func (p *Prober) scrapeHelp(ctx context.Context, path string) ([]string, error) {
	out, err := p.run(ctx, path, p.cfg.HelpArgs)
	if err != nil {
		return nil, err
	}
	return ParseHelp(out), nil
}

func (p *Prober) run(ctx context.Context, path string, args []string) (string, error) {
	cmd, err := p.builder.Build(ctx, path, args...)
	if err != nil {
		return "", err
	}
	result, err := cmd.WithTimeout(p.cfg.Timeout()).Run()
	if err != nil {
		return "", err
	}
	return result.Stdout, nil
}

// ParseHelp extracts command names from help text, in order of first
// appearance and without duplicates.
func ParseHelp(help string) []string {
	commands := []string{}
	seen := make(map[string]bool)
	for _, m := range helpCommandRegex.FindAllStringSubmatch(help, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		commands = append(commands, name)
	}
	return commands
}
