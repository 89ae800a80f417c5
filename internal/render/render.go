// Package render implements the Markdown-to-HTML pure function the rest of
// the engine treats as an external collaborator. It covers the common block
// and inline constructs agents actually emit (headings, paragraphs, lists,
// code fences, emphasis, links, blockquotes) without pulling in a full
// CommonMark implementation.
//
// No Markdown-rendering library appears anywhere in the retrieval corpus, so
// this is a deliberate standard-library-only component — see DESIGN.md.
package render

import (
	"html"
	"regexp"
	"strings"
)

// HTML renders Markdown source to an HTML fragment.
func HTML(markdown string) string {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")

	var out strings.Builder
	var para []string
	var list []string
	inCode := false
	var codeLang string
	var code []string

	flushParagraph := func() {
		if len(para) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(inline(strings.Join(para, " ")))
		out.WriteString("</p>\n")
		para = nil
	}
	flushList := func() {
		if len(list) == 0 {
			return
		}
		out.WriteString("<ul>\n")
		for _, item := range list {
			out.WriteString("<li>")
			out.WriteString(inline(item))
			out.WriteString("</li>\n")
		}
		out.WriteString("</ul>\n")
		list = nil
	}

	headingRe := regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listRe := regexp.MustCompile(`^[-*+]\s+(.*)$`)
	quoteRe := regexp.MustCompile(`^>\s?(.*)$`)

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")

		if strings.HasPrefix(strings.TrimSpace(trimmed), "```") {
			if inCode {
				out.WriteString("<pre><code")
				if codeLang != "" {
					out.WriteString(" class=\"language-" + html.EscapeString(codeLang) + "\"")
				}
				out.WriteString(">")
				out.WriteString(html.EscapeString(strings.Join(code, "\n")))
				out.WriteString("</code></pre>\n")
				code = nil
				codeLang = ""
				inCode = false
			} else {
				flushParagraph()
				flushList()
				inCode = true
				codeLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(trimmed), "```"))
			}
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}

		if strings.TrimSpace(trimmed) == "" {
			flushParagraph()
			flushList()
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			flushList()
			level := len(m[1])
			out.WriteString("<h" + itoa(level) + ">" + inline(m[2]) + "</h" + itoa(level) + ">\n")
			continue
		}

		if m := listRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			list = append(list, m[1])
			continue
		}

		if m := quoteRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			flushList()
			out.WriteString("<blockquote><p>" + inline(m[1]) + "</p></blockquote>\n")
			continue
		}

		para = append(para, strings.TrimSpace(trimmed))
	}

	flushParagraph()
	flushList()
	if inCode {
		out.WriteString("<pre><code>")
		out.WriteString(html.EscapeString(strings.Join(code, "\n")))
		out.WriteString("</code></pre>\n")
	}

	return strings.TrimSuffix(out.String(), "\n")
}

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

func inline(s string) string {
	s = html.EscapeString(s)
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = boldRe.ReplaceAllString(s, `<strong>$1</strong>`)
	s = italicRe.ReplaceAllString(s, `<em>$1</em>`)
	s = codeRe.ReplaceAllString(s, `<code>$1</code>`)
	return s
}

func itoa(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{digits[n%10]}, b...)
		n /= 10
	}
	return string(b)
}

var wordRe = regexp.MustCompile(`[A-Za-z0-9'’]+`)

// WordCount returns the number of word tokens in content: runs of
// alphanumeric characters, ignoring Markdown punctuation like leading "#"
// heading markers or list bullets so word counts track the prose rather than
// the markup.
func WordCount(content string) int {
	return len(wordRe.FindAllString(content, -1))
}
