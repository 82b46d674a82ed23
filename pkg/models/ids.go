package models

import "github.com/google/uuid"

// NewSessionID returns a fresh session identifier.
func NewSessionID() string {
	return "session-" + uuid.NewString()
}

// NewScriptID returns a fresh script identifier.
func NewScriptID() string {
	return "script-" + uuid.NewString()
}
