package theme

import (
	"os"
	"strings"
)

// IconSet holds the glyphs used in tables and notifications.
type IconSet struct {
	Pinned  string
	Project string
	Git     string
	Session string
	Script  string
	Active  string
	Ended   string
	Success string
	Error   string
	Warning string
	Arrow   string
}

var nerdIcons = IconSet{
	Pinned:  "\U000f0403", // md-pin
	Project: "\ueb30",     // cod-project
	Git:     "\ue725",     // dev-git_branch
	Session: "\U000f0b79", // md-chat
	Script:  "\ue691",     // seti-shell
	Active:  "\U000f051f", // md-timer_sand
	Ended:   "\U000f0133", // md-checkbox_marked_circle
	Success: "\U000f012c", // md-check
	Error:   "\uea87",     // cod-error
	Warning: "\uf071",     // fa-warning
	Arrow:   "\U000f0054", // md-arrow_right
}

var asciiIcons = IconSet{
	Pinned:  "*",
	Project: "◆",
	Git:     "⎇",
	Session: "★",
	Script:  "▶",
	Active:  "◐",
	Ended:   "●",
	Success: "✓",
	Error:   "✗",
	Warning: "⚠",
	Arrow:   "→",
}

// Icons is the active icon set. Nerd Font glyphs are the default;
// COMPANION_ICONS=ascii or tui.icons: ascii selects plain symbols.
var Icons = selectIcons()

func selectIcons() IconSet {
	choice := strings.ToLower(os.Getenv("COMPANION_ICONS"))
	if choice == "" {
		choice = strings.ToLower(loadTUIConfig().Icons)
	}
	if choice == "ascii" {
		return asciiIcons
	}
	return nerdIcons
}
