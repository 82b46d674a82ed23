package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/companion/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// terminalWidth returns the width of w when it is a terminal, capped at
// maxWidth. Anything else gets maxWidth.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return maxWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < minWidth || width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps text to width, preserving existing line breaks and the
// indentation of each line.
func wrapText(text string, width int) string {
	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}
		indent := paragraph[:len(paragraph)-len(strings.TrimLeft(paragraph, " "))]
		line := ""
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = indent + word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = indent + word
			}
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp renders cmd's help with the companion theme.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// ApplyStyledHelpRecursive styles the help of cmd and every subcommand and
// silences the usage dump cobra prints on errors. Call it once the command
// tree is complete.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
	cmd.SetUsageFunc(func(*cobra.Command) error { return nil })
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// parseDescription splits a long description at its "Examples:" line.
func parseDescription(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return strings.TrimSpace(long), ""
}

// helpPage writes one command's help.
type helpPage struct {
	w       io.Writer
	t       *theme.Theme
	width   int
	section lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	t := theme.DefaultTheme
	out := cmd.OutOrStdout()
	p := &helpPage{
		w:       out,
		t:       t,
		width:   terminalWidth(out) - 2,
		section: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		command: lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
	}
	p.render(cmd)
}

func (p *helpPage) line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, " "+format+"\n", args...)
}

func (p *helpPage) heading(name string) {
	fmt.Fprintln(p.w)
	p.line("%s", p.section.Render(name))
}

func (p *helpPage) render(cmd *cobra.Command) {
	p.line("%s", p.section.Render(strings.ToUpper(cmd.CommandPath())))
	for _, l := range strings.Split(wrapText(cmd.Short, p.width), "\n") {
		p.line("%s", p.t.Muted.Render(l))
	}

	description, examples := parseDescription(cmd.Long)
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.w)
		for _, l := range strings.Split(wrapText(description, p.width), "\n") {
			p.line("%s", l)
		}
	}

	if cmd.Runnable() || cmd.HasAvailableSubCommands() {
		p.heading("USAGE")
		if cmd.Runnable() {
			p.line("%s", cmd.UseLine())
		}
		if cmd.HasAvailableSubCommands() {
			p.line("%s [command]", cmd.CommandPath())
		}
	}

	if len(cmd.Aliases) > 0 {
		p.heading("ALIASES")
		p.line("%s", strings.Join(append([]string{cmd.Name()}, cmd.Aliases...), ", "))
	}

	p.subcommands(cmd)
	p.flags(cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.heading("EXAMPLES")
		for _, l := range strings.Split(examples, "\n") {
			p.example(cmd.Root(), strings.TrimSpace(l))
		}
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(p.w)
		p.line("%s", p.t.Muted.Render(fmt.Sprintf("Use \"%s [command] --help\" for more information.", cmd.CommandPath())))
	}
}

func (p *helpPage) subcommands(cmd *cobra.Command) {
	if !cmd.HasAvailableSubCommands() {
		return
	}
	var subs []*cobra.Command
	nameLen := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			subs = append(subs, sub)
			nameLen = max(nameLen, len(sub.Name()))
		}
	}
	p.heading("COMMANDS")
	for _, sub := range subs {
		pad := strings.Repeat(" ", nameLen-len(sub.Name()))
		p.line("%s%s  %s", p.command.Render(sub.Name()), pad, sub.Short)
	}
}

// flags lists the command's own flags in full. Flags inherited from the
// root are summarised on one line.
func (p *helpPage) flags(cmd *cobra.Command) {
	var local, global []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			local = append(local, f)
		}
	})
	cmd.InheritedFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			global = append(global, f)
		}
	})

	if len(local) > 0 {
		p.heading("FLAGS")
		nameLen := 0
		for _, f := range local {
			nameLen = max(nameLen, len(flagName(f)))
		}
		for _, f := range local {
			name := flagName(f)
			usage, choices := parseChoices(f.Usage)
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
				usage += p.t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			p.line("%s%s  %s", p.flag.Render(name), strings.Repeat(" ", nameLen-len(name)), usage)
			for _, choice := range choices {
				p.line("%s  %s", strings.Repeat(" ", nameLen), p.t.Muted.Render("• "+choice))
			}
		}
	}

	if len(global) > 0 {
		names := make([]string, 0, len(global))
		for _, f := range global {
			names = append(names, strings.TrimSpace(flagName(f)))
		}
		fmt.Fprintln(p.w)
		p.line("%s", p.t.Muted.Render("Global flags: "+strings.Join(names, ", ")))
	}
}

// example styles one example line: the words naming a companion command,
// then flags, then plain arguments. Lines starting with # are comments.
func (p *helpPage) example(root *cobra.Command, line string) {
	if line == "" {
		fmt.Fprintln(p.w)
		return
	}
	if strings.HasPrefix(line, "#") {
		p.line(" %s", p.t.Muted.Render(line))
		return
	}

	words := strings.Fields(line)
	commandWords := 0
	if words[0] == root.Name() {
		commandWords = 1
		if found, rest, err := root.Find(words[1:]); err == nil && found != root {
			commandWords = len(words) - len(rest)
		}
	}

	styled := make([]string, len(words))
	for i, word := range words {
		switch {
		case i < commandWords:
			styled[i] = p.command.Render(word)
		case strings.HasPrefix(word, "-"):
			styled[i] = p.flag.Render(word)
		default:
			styled[i] = word
		}
	}
	p.line(" %s", strings.Join(styled, " "))
}

// flagName returns "-f, --flag" or "    --flag".
func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}

// parseChoices splits a usage string of the form "Label: a, b, c" into the
// label and its choices. Fewer than three items are not treated as a list.
func parseChoices(usage string) (description string, choices []string) {
	label, list, ok := strings.Cut(usage, ": ")
	if !ok {
		return usage, nil
	}
	suffix := ""
	if idx := strings.Index(list, " ("); idx != -1 {
		list, suffix = list[:idx], list[idx:]
	}
	parts := strings.Split(list, ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(part, "or "))
	}
	return label + ":" + suffix, parts
}
