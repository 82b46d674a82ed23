// Package suggest maps a free-text intent to a shell command the user can
// copy. Nothing here runs the command.
package suggest

import (
	"strings"

	"github.com/grovetools/companion/errors"
)

// Rule suggests Command when the intent contains Keyword.
type Rule struct {
	Keyword string
	Command string
}

// Fallback is suggested when no rule matches.
const Fallback = `echo "I'm not sure how to help with that. Try 'list files' or 'git status'."`

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{Keyword: "list", Command: "ls -la"},
	{Keyword: "git", Command: "git status"},
}

// Suggest returns the command for intent using DefaultRules.
func Suggest(intent string) (string, error) {
	return SuggestWith(DefaultRules, intent)
}

// SuggestWith returns the command of the first rule whose keyword occurs in
// intent. Matching is case-sensitive.
func SuggestWith(rules []Rule, intent string) (string, error) {
	if strings.TrimSpace(intent) == "" {
		return "", errors.InvalidInput("Please enter your intent")
	}
	for _, r := range rules {
		if strings.Contains(intent, r.Keyword) {
			return r.Command, nil
		}
	}
	return Fallback, nil
}
