// Package models defines the records companion persists: projects, scripts,
// sessions and the settings singleton.
package models

import (
	"time"
)

// Project is a tracked working directory. Path is its identity.
type Project struct {
	Name           string    `json:"name" validate:"required"`
	Path           string    `json:"path" validate:"required"`
	IsGit          bool      `json:"is_git"`
	LastActive     time.Time `json:"last_active"`
	RecentSessions []string  `json:"recent_sessions"`
	Hooks          []string  `json:"hooks"`
	Pinned         bool      `json:"pinned"`
	Agent          Agent     `json:"agent,omitempty" validate:"omitempty,oneof=Gemini Claude SuperClaude OpenRouter 'Claude Code Router'"`
	Editor         Editor    `json:"editor,omitempty" validate:"omitempty,oneof=VSCode Cursor Ghostty"`
	// SuperClaudeCommands are the SuperClaude subcommands enabled for this project.
	SuperClaudeCommands []string `json:"superclaude_commands,omitempty" validate:"dive,required"`
}

// Identity returns the project path.
func (p Project) Identity() string { return p.Path }

// Normalize replaces nil lists with empty ones so they serialize as [].
func (p *Project) Normalize() {
	if p.RecentSessions == nil {
		p.RecentSessions = []string{}
	}
	if p.Hooks == nil {
		p.Hooks = []string{}
	}
}

// Script is a catalogued helper script.
type Script struct {
	ID                 string    `json:"id" validate:"required"`
	Name               string    `json:"name" validate:"required"`
	Path               string    `json:"path" validate:"required"`
	Language           Language  `json:"language" validate:"oneof=python bash node other"`
	Description        string    `json:"description"`
	Tags               []string  `json:"tags"`
	AssociatedProjects []string  `json:"associated_projects"`
	LastEdited         time.Time `json:"last_edited"`
	Pinned             bool      `json:"pinned"`
}

// Identity returns the script id.
func (s Script) Identity() string { return s.ID }

// Normalize replaces nil lists with empty ones so they serialize as [].
func (s *Script) Normalize() {
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if s.AssociatedProjects == nil {
		s.AssociatedProjects = []string{}
	}
}

// Session is one agent run against a project. ProjectID holds the project path.
type Session struct {
	ID        string     `json:"id" validate:"required"`
	ProjectID string     `json:"projectId" validate:"required"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Active    bool       `json:"active"`
	Agent     Agent      `json:"agent" validate:"oneof=Gemini Claude SuperClaude OpenRouter 'Claude Code Router' None"`
}

// Identity returns the session id.
func (s Session) Identity() string { return s.ID }

// Normalize is a no-op; sessions carry no lists.
func (s *Session) Normalize() {}

// ProviderRef is a provider entry remembered in settings.
type ProviderRef struct {
	Name string `json:"name"`
	API  string `json:"api"`
}

// Settings is the singleton preferences object.
type Settings struct {
	SuperClaudePath string        `json:"superclaude_path"`
	DefaultEditor   string        `json:"default_editor"`
	RecentProjects  []string      `json:"recent_projects"`
	PinnedProjects  []string      `json:"pinned_projects"`
	Scripts         []Script      `json:"scripts"`
	Providers       []ProviderRef `json:"providers"`
	TOSAcknowledged []string      `json:"tos_acknowledged"`
	LastClean       string        `json:"last_clean"`
}

// Default values of a fresh settings object.
const (
	DefaultSuperClaudePath = "/usr/local/bin/superclaude"
	DefaultEditorCommand   = "code"
)

// TOSTools lists the tools whose terms can be acknowledged.
var TOSTools = []string{"superclaude", "gemini", "claude"}

// DefaultSettings returns the object used when nothing is stored.
func DefaultSettings() Settings {
	s := Settings{
		SuperClaudePath: DefaultSuperClaudePath,
		DefaultEditor:   DefaultEditorCommand,
	}
	s.Normalize()
	return s
}

// Normalize replaces nil lists with empty ones so they serialize as [].
func (s *Settings) Normalize() {
	if s.RecentProjects == nil {
		s.RecentProjects = []string{}
	}
	if s.PinnedProjects == nil {
		s.PinnedProjects = []string{}
	}
	if s.Scripts == nil {
		s.Scripts = []Script{}
	}
	if s.Providers == nil {
		s.Providers = []ProviderRef{}
	}
	if s.TOSAcknowledged == nil {
		s.TOSAcknowledged = []string{}
	}
}

// CommandSource records how a tool's command list was obtained.
type CommandSource string

const (
	SourceNone       CommandSource = ""
	SourceStructured CommandSource = "structured"
	SourceHelpScrape CommandSource = "help-scrape"
)

// ToolInfo is the derived description of the SuperClaude CLI, rebuilt on every probe.
type ToolInfo struct {
	CLIPath         string        `json:"cli_path"`
	Detected        bool          `json:"detected"`
	CommandsExposed []string      `json:"commands_exposed"`
	ProjectActions  []string      `json:"project_actions"`
	Source          CommandSource `json:"source,omitempty"`
	// BestEffort is set when the command list was scraped from help text.
	BestEffort bool `json:"best_effort,omitempty"`
}
