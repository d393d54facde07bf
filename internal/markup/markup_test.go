package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToJira(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Title", "h1. Title"},
		{"h2", "## Section", "h2. Section"},
		{"h3", "### Sub", "h3. Sub"},
		{"four hashes untouched", "#### Deep", "#### Deep"},
		{"hash without space", "#tag", "#tag"},
		{"mid-line hash", "issue # 42", "issue # 42"},
		{"bold", "**bold**", "*bold*"},
		{"two bold spans", "**a** and **b**", "*a* and *b*"},
		{"bold at line start is not a list", "**bold** item", "*bold* item"},
		{"inline code", "`code`", "{{code}}"},
		{"link", "[label](http://x)", "[label|http://x]"},
		{"list", "- item", "* item"},
		{"list keeps rest of line", "- [docs](http://d) and `x`", "* [docs|http://d] and {{x}}"},
		{"italic underscore passes through", "_soft_", "_soft_"},
		{"italic star passes through", "*soft*", "*soft*"},
		{"plain text", "nothing to see", "nothing to see"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToJira(tt.in))
		})
	}
}

func TestToJira_FencedCode(t *testing.T) {
	got := ToJira("```js\nlet x=1;\n```")

	assert.True(t, strings.HasPrefix(got, "{code}"), "got %q", got)
	assert.True(t, strings.HasSuffix(got, "{code}"), "got %q", got)
	assert.Contains(t, got, "let x=1;")
	assert.NotContains(t, got, "js")
	assert.NotContains(t, got, "```")
}

func TestToJira_FencedCodeKeepsNewlines(t *testing.T) {
	got := ToJira("before\n```\nline one\nline two\n```\nafter")

	assert.Equal(t, "before\n{code}line one\nline two\n{code}\nafter", got)
}

func TestToJira_FencedCodeDropsAnyLanguageTag(t *testing.T) {
	tests := map[string]string{
		"c#":             "```c#\nvar x = 1;\n```",
		"f#":             "```f#\nlet x = 1\n```",
		"trailing space": "```objective-c++ \nint x;\n```",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			got := ToJira(in)
			assert.True(t, strings.HasPrefix(got, "{code}"), "got %q", got)
			assert.NotContains(t, got, "#")
			assert.NotContains(t, got, "++")
		})
	}
}

func TestToJira_FencedCodeOnOneLine(t *testing.T) {
	assert.Equal(t, "{code}make test{code}", ToJira("```make test```"))
}

func TestToJira_MultiLineDocument(t *testing.T) {
	in := strings.Join([]string{
		"# Release notes",
		"",
		"Some **important** changes:",
		"- fixed `nil` deref",
		"- see [PR](https://example.com/pr/1)",
	}, "\n")
	want := strings.Join([]string{
		"h1. Release notes",
		"",
		"Some *important* changes:",
		"* fixed {{nil}} deref",
		"* see [PR|https://example.com/pr/1]",
	}, "\n")

	assert.Equal(t, want, ToJira(in))
}

func TestToJira_NativeMarkupIsStable(t *testing.T) {
	for _, native := range []string{
		"h1. Title",
		"h3. Sub",
		"* item",
		"[label|http://x]",
		"h2. Heading\n* one\n* two [site|https://example.com]",
	} {
		assert.Equal(t, native, ToJira(native), "input %q", native)
	}
}

func TestToJira_ReapplyingToOutput(t *testing.T) {
	once := ToJira("# Title\n- item\n[a](http://b)")

	assert.Equal(t, once, ToJira(once))
}
