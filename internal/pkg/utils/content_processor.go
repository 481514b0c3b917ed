package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// tagClasses maps bare tutorial markup to the stylesheet classes the
// tutorial pages expect. Only tags without a class attribute are touched,
// so authored markup keeps the upper hand.
var tagClasses = []struct {
	re    *regexp.Regexp
	class string
}{
	{regexp.MustCompile(`<h2(\s[^>]*)?>`), "tutorial-heading"},
	{regexp.MustCompile(`<h3(\s[^>]*)?>`), "tutorial-subheading"},
	{regexp.MustCompile(`<p(\s[^>]*)?>`), "tutorial-copy"},
	{regexp.MustCompile(`<ul(\s[^>]*)?>`), "tutorial-list"},
	{regexp.MustCompile(`<ol(\s[^>]*)?>`), "tutorial-list"},
	{regexp.MustCompile(`<blockquote(\s[^>]*)?>`), "tutorial-quote"},
	{regexp.MustCompile(`<a(\s[^>]*)?>`), "tutorial-link"},
}

// ProcessHTMLContent decorates stored tutorial HTML with the stylesheet
// classes of the tutorial pages. Content is authored classless in the
// database; presentation stays a rendering concern.
func ProcessHTMLContent(content string) string {
	for _, tc := range tagClasses {
		content = tc.re.ReplaceAllStringFunc(content, func(match string) string {
			sub := tc.re.FindStringSubmatch(match)
			if len(sub) > 1 && strings.Contains(sub[1], "class=") {
				return match
			}
			return fmt.Sprintf(`%s class="%s">`, match[:len(match)-1], tc.class)
		})
	}
	return content
}
