package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTML_Heading(t *testing.T) {
	out := HTML("# Hi")
	require.Contains(t, out, "<h1>Hi</h1>")
}

func TestHTML_Paragraph(t *testing.T) {
	out := HTML("hello world")
	require.Contains(t, out, "<p>hello world</p>")
}

func TestHTML_List(t *testing.T) {
	out := HTML("- one\n- two")
	require.Contains(t, out, "<ul>")
	require.Contains(t, out, "<li>one</li>")
	require.Contains(t, out, "<li>two</li>")
}

func TestHTML_CodeFence(t *testing.T) {
	out := HTML("```go\nfmt.Println(1)\n```")
	require.Contains(t, out, "<pre><code")
	require.Contains(t, out, "fmt.Println(1)")
}

func TestHTML_Emphasis(t *testing.T) {
	out := HTML("this is **bold** and *italic* and `code`")
	require.Contains(t, out, "<strong>bold</strong>")
	require.Contains(t, out, "<em>italic</em>")
	require.Contains(t, out, "<code>code</code>")
}

func TestHTML_EscapesRawHTML(t *testing.T) {
	out := HTML("<script>alert(1)</script>")
	require.False(t, strings.Contains(out, "<script>"))
}

func TestWordCount(t *testing.T) {
	require.Equal(t, 1, WordCount("# Hi"))
	require.Equal(t, 4, WordCount("# Hi\nmore words here"))
	require.Equal(t, 0, WordCount("   \n  "))
}
