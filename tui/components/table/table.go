package table

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/companion/tui/theme"
)

// Options provides additional configuration for the table
type Options struct {
	Bordered      bool
	AlternateRows bool
	Theme         *theme.Theme
}

// DefaultOptions returns the default table options
func DefaultOptions() Options {
	return Options{
		Bordered:      true,
		AlternateRows: theme.DefaultTheme.UseAlternatingRows,
		Theme:         theme.DefaultTheme,
	}
}

// NewStyledTable creates a new lipgloss table with the default styling
func NewStyledTable() *ltable.Table {
	return NewStyledTableWithOptions(DefaultOptions())
}

// NewStyledTableWithOptions creates a table with custom options
func NewStyledTableWithOptions(opts Options) *ltable.Table {
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	t := opts.Theme

	table := ltable.New()
	if opts.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(t.TableBorder)
	} else {
		table = table.Border(lipgloss.HiddenBorder())
	}

	// Header cells arrive as ltable.HeaderRow; data rows count from 0.
	return table.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.TableHeader
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if opts.AlternateRows && row%2 == 1 {
			style = style.Background(t.Colors.SubtleBackground)
		}
		return style
	})
}

// SimpleTable creates a basic table with headers and rows
func SimpleTable(headers []string, rows [][]string) string {
	return NewStyledTable().
		Headers(headers...).
		Rows(rows...).
		String()
}

// StatusTable renders label/value pairs without a border, for `show` commands.
func StatusTable(items [][2]string) string {
	table := NewStyledTableWithOptions(Options{Bordered: false, Theme: theme.DefaultTheme})
	for _, item := range items {
		table = table.Row(theme.DefaultTheme.Muted.Render(item[0]+":"), item[1])
	}
	return table.String()
}
