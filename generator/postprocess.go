package generator

import (
	"regexp"
	"strings"
)

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// PostProcess fills in the Post fields derived from the accepted body. The
// topic doubles as the title when the draft carries no level-1 heading.
func PostProcess(md, topic string) Post {
	md = strings.TrimSpace(md)

	title := extractTitle(md)
	if title == "" {
		title = topic
	}
	digest := extractDigest(md)
	if digest == "" {
		digest = clipDigest(md, 120)
	}

	return Post{
		Title:    title,
		Digest:   digest,
		Markdown: md,
	}
}

func extractTitle(md string) string {
	if m := titleRe.FindStringSubmatch(md); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// The digest is the first prose line after any headings.
func extractDigest(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}

func clipDigest(md string, limit int) string {
	joined := strings.Join(strings.Fields(md), " ")
	runes := []rune(joined)
	if len(runes) <= limit {
		return joined
	}
	return string(runes[:limit])
}
