package models

import (
	"path/filepath"
	"strings"

	"github.com/grovetools/companion/errors"
)

// Agent names a coding agent a project or session runs with.
type Agent string

const (
	AgentGemini           Agent = "Gemini"
	AgentClaude           Agent = "Claude"
	AgentSuperClaude      Agent = "SuperClaude"
	AgentOpenRouter       Agent = "OpenRouter"
	AgentClaudeCodeRouter Agent = "Claude Code Router"
	// AgentNone is only valid on sessions.
	AgentNone Agent = "None"
)

// ProjectAgents lists the agents a project may be configured with.
var ProjectAgents = []Agent{AgentGemini, AgentClaude, AgentSuperClaude, AgentOpenRouter, AgentClaudeCodeRouter}

// SessionAgents additionally allows AgentNone.
var SessionAgents = []Agent{AgentGemini, AgentClaude, AgentSuperClaude, AgentOpenRouter, AgentClaudeCodeRouter, AgentNone}

// Editor names the editor a project opens in.
type Editor string

const (
	EditorVSCode  Editor = "VSCode"
	EditorCursor  Editor = "Cursor"
	EditorGhostty Editor = "Ghostty"
)

// Editors lists the supported editors.
var Editors = []Editor{EditorVSCode, EditorCursor, EditorGhostty}

// Language is the interpreter family of a script.
type Language string

const (
	LanguagePython Language = "python"
	LanguageBash   Language = "bash"
	LanguageNode   Language = "node"
	LanguageOther  Language = "other"
)

// ParseAgent resolves user input case-insensitively ("claude code router",
// "ClaudeCodeRouter" and "ccr" all name the router agent). Empty input
// yields the empty agent.
func ParseAgent(s string) (Agent, error) {
	key := normalizeEnum(s)
	if key == "" {
		return "", nil
	}
	if key == "ccr" {
		return AgentClaudeCodeRouter, nil
	}
	for _, a := range SessionAgents {
		if normalizeEnum(string(a)) == key {
			return a, nil
		}
	}
	return "", errors.InvalidInput("unknown agent: " + s).
		WithDetail("allowed", ProjectAgents)
}

// ParseEditor resolves user input case-insensitively ("vscode", "code").
func ParseEditor(s string) (Editor, error) {
	key := normalizeEnum(s)
	if key == "" {
		return "", nil
	}
	if key == "code" {
		return EditorVSCode, nil
	}
	for _, e := range Editors {
		if normalizeEnum(string(e)) == key {
			return e, nil
		}
	}
	return "", errors.InvalidInput("unknown editor: " + s).
		WithDetail("allowed", Editors)
}

// LanguageFromPath infers a script's language from its extension.
func LanguageFromPath(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return LanguagePython
	case ".sh", ".bash":
		return LanguageBash
	case ".js", ".mjs", ".cjs", ".ts":
		return LanguageNode
	default:
		return LanguageOther
	}
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)
}
