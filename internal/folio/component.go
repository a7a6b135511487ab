package folio

import (
	"regexp"
	"strings"
)

// Generated quiz and visual-map components arrive as one self-contained blob
// of markup, styles, and behavior. SplitComponent separates the three so each
// lands in the document that owns its concern.

var (
	reStyle  = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	reScript = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)
)

// Component is content split across the three web-folio documents.
type Component struct {
	Structure string // markup for the structure document
	Style     string // CSS for the style document; may be empty
	Behavior  string // JS for the behavior document; may be empty
}

// SplitComponent extracts top-level <style> and <script> blocks from content
// and returns the remainder as structure markup. Content with neither block
// passes through unchanged.
func SplitComponent(content string) Component {
	var css, js []string
	rest := reStyle.ReplaceAllStringFunc(content, func(m string) string {
		css = append(css, strings.TrimSpace(reStyle.FindStringSubmatch(m)[1]))
		return ""
	})
	rest = reScript.ReplaceAllStringFunc(rest, func(m string) string {
		js = append(js, strings.TrimSpace(reScript.FindStringSubmatch(m)[1]))
		return ""
	})
	return Component{
		Structure: strings.TrimSpace(rest),
		Style:     strings.Join(css, "\n\n"),
		Behavior:  strings.Join(js, "\n\n"),
	}
}
