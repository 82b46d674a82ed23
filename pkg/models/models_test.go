package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/companion/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgent(t *testing.T) {
	tests := []struct {
		input   string
		want    Agent
		wantErr bool
	}{
		{"Claude", AgentClaude, false},
		{"claude", AgentClaude, false},
		{"superclaude", AgentSuperClaude, false},
		{"claude code router", AgentClaudeCodeRouter, false},
		{"claude-code-router", AgentClaudeCodeRouter, false},
		{"ccr", AgentClaudeCodeRouter, false},
		{"None", AgentNone, false},
		{"", "", false},
		{"copilot", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAgent(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEditor(t *testing.T) {
	got, err := ParseEditor("code")
	require.NoError(t, err)
	assert.Equal(t, EditorVSCode, got)

	got, err = ParseEditor("ghostty")
	require.NoError(t, err)
	assert.Equal(t, EditorGhostty, got)

	_, err = ParseEditor("emacs")
	assert.Error(t, err)
}

func TestLanguageFromPath(t *testing.T) {
	tests := map[string]Language{
		"deploy.py":    LanguagePython,
		"run.sh":       LanguageBash,
		"setup.BASH":   LanguageBash,
		"build.mjs":    LanguageNode,
		"index.ts":     LanguageNode,
		"Makefile":     LanguageOther,
		"notes.md":     LanguageOther,
		"/a/b/tool.js": LanguageNode,
	}
	for path, want := range tests {
		assert.Equal(t, want, LanguageFromPath(path), path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  interface{}
		wantErr bool
	}{
		{"valid project", Project{Name: "p1", Path: "/tmp/p1", Agent: AgentClaudeCodeRouter, Editor: EditorCursor}, false},
		{"project without agent", Project{Name: "p1", Path: "/tmp/p1"}, false},
		{"project with session-only agent", Project{Name: "p1", Path: "/tmp/p1", Agent: AgentNone}, true},
		{"project missing path", Project{Name: "p1"}, true},
		{"project bad editor", Project{Name: "p1", Path: "/tmp/p1", Editor: "Emacs"}, true},
		{"valid session", Session{ID: "session-1", ProjectID: "/tmp/p1", Agent: AgentNone}, false},
		{"session without agent", Session{ID: "session-1", ProjectID: "/tmp/p1"}, true},
		{"valid script", Script{ID: "script-1", Name: "a", Path: "/a.sh", Language: LanguageBash}, false},
		{"script bad language", Script{ID: "script-1", Name: "a", Path: "/a.rb", Language: "ruby"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultSettingsSerializeEmptyLists(t *testing.T) {
	data, err := json.Marshal(DefaultSettings())
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, DefaultSuperClaudePath, raw["superclaude_path"])
	assert.Equal(t, "code", raw["default_editor"])
	assert.Equal(t, "", raw["last_clean"])
	for _, key := range []string{"recent_projects", "pinned_projects", "scripts", "providers", "tos_acknowledged"} {
		assert.Equal(t, []interface{}{}, raw[key], key)
	}
}

func TestSessionWireFormat(t *testing.T) {
	start := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Session{ID: "session-1", ProjectID: "/tmp/p1", StartTime: start, Active: true, Agent: AgentClaude})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"session-1","projectId":"/tmp/p1","startTime":"2025-05-01T12:00:00Z","active":true,"agent":"Claude"}`, string(data))

	// Timestamps written with millisecond precision are read back.
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s","projectId":"/p","startTime":"2025-05-01T12:00:00.123Z","endTime":"2025-05-01T13:00:00.000Z","active":false,"agent":"None"}`), &s))
	require.NotNil(t, s.EndTime)
	assert.Equal(t, 123*time.Millisecond, time.Duration(s.StartTime.Nanosecond()))
}

func TestNewIDs(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.True(t, strings.HasPrefix(a, "session-"))
	assert.NotEqual(t, a, b)
	assert.Len(t, strings.TrimPrefix(a, "session-"), 36)

	assert.True(t, strings.HasPrefix(NewScriptID(), "script-"))
}
