// Package format renders generated markdown into an HTML fragment that mail
// clients display predictably, plus a plain-text alternative. Pure and
// deterministic: no network, no disk, same input always yields the same
// output.
package format

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

// Render converts markdown to email HTML and a plain-text fallback.
func Render(md string) (htmlBody, textBody string, err error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", "", fmt.Errorf("converting markdown: %w", err)
	}
	htmlBody = normalizeForEmail(buf.String())
	return htmlBody, StripTags(htmlBody), nil
}

// Mail clients ignore stylesheets, so every style lands inline on the tag.
// The passes mirror the markdown constructs the generator is told to emit:
// headings, emphasis, inline code, fenced code blocks, lists, blockquotes.
func normalizeForEmail(h string) string {
	h = styleHeadings(h)
	h = styleCodeBlocks(h)
	h = styleInlineCode(h)
	h = stylePlainTags(h)
	return h
}

var headingRe = regexp.MustCompile(`<h([1-6])>`)

var headingSizes = map[string]string{
	"1": "26px",
	"2": "22px",
	"3": "19px",
	"4": "17px",
	"5": "15px",
	"6": "14px",
}

func styleHeadings(h string) string {
	return headingRe.ReplaceAllStringFunc(h, func(tag string) string {
		parts := headingRe.FindStringSubmatch(tag)
		size := headingSizes[parts[1]]
		return fmt.Sprintf(`<h%s style="font-size:%s;font-weight:700;margin:1.2em 0 0.5em;">`, parts[1], size)
	})
}

var codeBlockRe = regexp.MustCompile(`<pre><code( class="language-([^"]*)")?>`)

// Fenced blocks keep their language label both as the class goldmark emits
// and as a data attribute, so the receiving platform can re-highlight them.
func styleCodeBlocks(h string) string {
	return codeBlockRe.ReplaceAllStringFunc(h, func(tag string) string {
		parts := codeBlockRe.FindStringSubmatch(tag)
		lang := parts[2]
		pre := `<pre style="background:#f6f8fa;padding:12px;border-radius:6px;overflow-x:auto;">`
		if lang == "" {
			return pre + `<code style="font-family:monospace;font-size:13px;">`
		}
		return pre + fmt.Sprintf(`<code class="language-%s" data-lang=%q style="font-family:monospace;font-size:13px;">`, lang, lang)
	})
}

func styleInlineCode(h string) string {
	return strings.ReplaceAll(h, "<code>",
		`<code style="font-family:monospace;font-size:90%;background:#f0f0f0;padding:1px 4px;border-radius:3px;">`)
}

var plainTagStyler = strings.NewReplacer(
	"<p>", `<p style="margin:0 0 1em;line-height:1.6;">`,
	"<ul>", `<ul style="margin:0 0 1em;padding-left:1.4em;">`,
	"<ol>", `<ol style="margin:0 0 1em;padding-left:1.4em;">`,
	"<li>", `<li style="margin:0 0 0.4em;">`,
	"<blockquote>", `<blockquote style="margin:0 0 1em;padding-left:1em;border-left:3px solid #ddd;color:#555;">`,
)

func stylePlainTags(h string) string {
	return plainTagStyler.Replace(h)
}

var (
	blockCloseRe = regexp.MustCompile(`</(p|h[1-6]|li|pre|blockquote)>`)
	brRe         = regexp.MustCompile(`<br\s*/?>`)
	anyTagRe     = regexp.MustCompile(`<[^>]*>`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

// StripTags derives the plain-text alternative from the rendered HTML.
func StripTags(h string) string {
	h = brRe.ReplaceAllString(h, "\n")
	h = blockCloseRe.ReplaceAllString(h, "\n\n")
	h = anyTagRe.ReplaceAllString(h, "")
	h = html.UnescapeString(h)
	h = blankRunRe.ReplaceAllString(h, "\n\n")
	return strings.TrimSpace(h)
}
