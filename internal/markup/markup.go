// Package markup converts the markdown people type into chat clients into
// Jira wiki markup.
package markup

import (
	"fmt"
	"regexp"
)

var (
	headerPattern     = regexp.MustCompile(`(?m)^(#{1,3}) (.*)$`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeBlockPattern  = regexp.MustCompile("```(?:[^\n`]*\n)?((?s:.*?))```")
	inlineCodePattern = regexp.MustCompile("`([^`\n]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	listPattern       = regexp.MustCompile(`(?m)^- `)
)

// ToJira rewrites markdown into Jira wiki markup. The rules run in a fixed
// order; anything that matches no rule is left where it is.
//
// Italics are not converted: _underscored_ spans already read as italic in
// wiki markup, and a single *star* span would turn bold.
func ToJira(text string) string {
	out := headerPattern.ReplaceAllStringFunc(text, func(line string) string {
		m := headerPattern.FindStringSubmatch(line)
		return fmt.Sprintf("h%d. %s", len(m[1]), m[2])
	})
	out = boldPattern.ReplaceAllString(out, "*$1*")
	out = codeBlockPattern.ReplaceAllString(out, "{code}$1{code}")
	out = inlineCodePattern.ReplaceAllString(out, "{{$1}}")
	out = linkPattern.ReplaceAllString(out, "[$1|$2]")
	out = listPattern.ReplaceAllString(out, "* ")
	return out
}
