package similarity

import (
	"regexp"
	"strings"
)

// DefaultDomainKeywords mark requirements that only a story from the same domain can satisfy.
var DefaultDomainKeywords = []string{
	"healthcare",
	"health care",
	"medical",
	"clinical",
	"hospital",
	"patient",
	"hipaa",
	"ehr",
	"emr",
	"pharmaceutical",
	"pharma",
	"compliance",
}

// DomainGuard detects requirements tied to a specialized domain.
type DomainGuard struct {
	pattern *regexp.Regexp
}

// NewDomainGuard compiles a case-insensitive, word-bounded matcher for keywords.
// With no keywords the guard never fires.
func NewDomainGuard(keywords []string) *DomainGuard {
	parts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		fields := strings.Fields(k)
		for i, f := range fields {
			fields[i] = regexp.QuoteMeta(f)
		}
		parts = append(parts, strings.Join(fields, `\s+`))
	}
	if len(parts) == 0 {
		return &DomainGuard{}
	}
	return &DomainGuard{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(parts, "|") + `)\b`),
	}
}

// Contains reports whether text mentions any keyword.
func (g *DomainGuard) Contains(text string) bool {
	if g == nil || g.pattern == nil {
		return false
	}
	return g.pattern.MatchString(text)
}

// Mismatch reports whether the requirement names a domain the story never mentions.
func (g *DomainGuard) Mismatch(requirementText, storyText string) bool {
	return g.Contains(requirementText) && !g.Contains(storyText)
}
