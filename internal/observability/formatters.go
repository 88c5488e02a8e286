// Package observability provides formatted output utilities for the CLI's text mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeffbeard/storylift/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func clip(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// PrintMatches outputs one box per requirement with its suggested stories.
func (p *Printer) PrintMatches(matches []types.RequirementMatch) {
	if len(matches) == 0 {
		p.printBox("MATCHES", "No stories matched any requirement")
		return
	}

	for _, m := range matches {
		var sb strings.Builder
		if m.RequirementDescription != "" {
			sb.WriteString(m.RequirementDescription)
			sb.WriteString("\n\n")
		}
		for i, c := range m.SuggestedStories {
			mark := " "
			if c.AlreadyMapped {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("%d. %s [%3d%%] %s\n", i+1, mark, c.Score, c.Title))
			if c.Preview != "" {
				sb.WriteString(fmt.Sprintf("      %s\n", c.Preview))
			}
		}
		p.printBox(m.RequirementTitle, sb.String())
	}
}

// PrintMappedStories outputs the stories mapped to a requirement.
func (p *Printer) PrintMappedStories(stories []types.MappedStory) {
	var sb strings.Builder
	if len(stories) == 0 {
		sb.WriteString("No stories mapped\n")
	}

	count := min(len(stories), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := stories[i]
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", s.Title, s.MappedAt.Format("2006-01-02")))
	}
	if len(stories) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stories)-maxItemsToShow))
	}

	p.printBox("MAPPED STORIES", sb.String())
}
