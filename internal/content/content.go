package content

import (
	"html"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// StripTags removes all HTML markup from the input and returns plain text.
// Used at the data load boundary for conversation names and previews.
func StripTags(input string) string {
	return html.UnescapeString(policy.Sanitize(input))
}

// CleanFileName drops any directory part and markup from an uploaded file name.
func CleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.TrimSpace(StripTags(name))
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}
