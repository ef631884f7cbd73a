// Package export renders pipeline results as a downloadable Markdown report.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Markdown builds the combined UTF-8 report: a title naming the source
// document, then an optional Overview section, a horizontal rule, and an
// optional Full Translation section, in that fixed order.
func Markdown(filename, summary, translation string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# 📄 Results for %q\n\n", filename)
	if summary != "" {
		fmt.Fprintf(&b, "## Overview\n\n%s\n\n---\n\n", summary)
	}
	if translation != "" {
		fmt.Fprintf(&b, "## Full Translation\n\n%s\n\n", translation)
	}
	return []byte(b.String())
}

// ResultFilename derives the download name from the source document name.
func ResultFilename(sourceFilename string) string {
	base := strings.TrimSuffix(sourceFilename, filepath.Ext(sourceFilename))
	return base + "_result.md"
}
