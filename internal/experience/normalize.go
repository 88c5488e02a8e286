package experience

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jeffbeard/storylift/internal/types"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// NormalizeStoryBank cleans every field and rejects stories left without a title
func NormalizeStoryBank(bank *types.StoryBank) error {
	for i := range bank.Stories {
		s := &bank.Stories[i]
		s.Title = CleanText(s.Title)
		s.Description = CleanText(s.Description)
		s.Situation = CleanText(s.Situation)
		s.Task = CleanText(s.Task)
		s.Action = CleanText(s.Action)
		s.Result = CleanText(s.Result)
		s.Notes = CleanText(s.Notes)

		if s.Title == "" {
			return &NormalizationError{
				Message: fmt.Sprintf("story %d has an empty title", i),
			}
		}
	}
	return nil
}

// CleanText normalizes text pasted from documents. Line endings become LF,
// runs of spaces and tabs collapse to one space, lines are trimmed and at most
// one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	lines := strings.Split(lineEndings.Replace(content), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
	}

	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
