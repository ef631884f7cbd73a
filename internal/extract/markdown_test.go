package extract

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_TopLevelHeadingsSplitPages(t *testing.T) {
	src := `# Introduction

Opening paragraph.

## Background

More detail here.

# Methods

How it was done.
`
	e := &MarkdownExtractor{}
	pages, err := e.Extract(strings.NewReader(src), "doc.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
	}
	if !strings.HasPrefix(pages[0], "Introduction") {
		t.Errorf("page 1 should start with the heading, got %q", pages[0])
	}
	if !strings.Contains(pages[0], "Background") || !strings.Contains(pages[0], "More detail here.") {
		t.Errorf("sub-sections should stay on the same page, got %q", pages[0])
	}
	if !strings.HasPrefix(pages[1], "Methods") {
		t.Errorf("page 2 should start with the second heading, got %q", pages[1])
	}
}

func TestMarkdownExtractor_NoHeadingsSinglePage(t *testing.T) {
	e := &MarkdownExtractor{}
	pages, err := e.Extract(strings.NewReader("Just a paragraph.\n\nAnother one.\n"), "doc.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if !strings.Contains(pages[0], "Just a paragraph.") || !strings.Contains(pages[0], "Another one.") {
		t.Errorf("paragraphs missing from page: %q", pages[0])
	}
}

func TestMarkdownExtractor_PreambleBeforeFirstHeading(t *testing.T) {
	src := "Preamble text.\n\n# First\n\nBody.\n"
	e := &MarkdownExtractor{}
	pages, err := e.Extract(strings.NewReader(src), "doc.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected preamble page plus section page, got %d: %q", len(pages), pages)
	}
	if pages[0] != "Preamble text." {
		t.Errorf("unexpected preamble page: %q", pages[0])
	}
}

func TestMarkdownExtractor_ParagraphTextEmittedOnce(t *testing.T) {
	src := "# Title\n\nBody sentence with *emphasis* inline.\n\n- first item\n- second item\n"
	e := &MarkdownExtractor{}
	pages, err := e.Extract(strings.NewReader(src), "doc.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d: %q", len(pages), pages)
	}
	for _, want := range []string{"Body sentence", "first item", "second item"} {
		if n := strings.Count(pages[0], want); n != 1 {
			t.Errorf("%q should appear once, appears %d times in %q", want, n, pages[0])
		}
	}
}

func TestMarkdownExtractor_EmptyInput(t *testing.T) {
	e := &MarkdownExtractor{}
	pages, err := e.Extract(strings.NewReader(""), "doc.md")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected no pages, got %d", len(pages))
	}
}

func TestCSVExtractor_HeadersRepeatedPerPage(t *testing.T) {
	var src strings.Builder
	src.WriteString("name,score\n")
	for i := 0; i < 60; i++ {
		src.WriteString("row,1\n")
	}

	e := &CSVExtractor{}
	pages, err := e.Extract(strings.NewReader(src.String()), "data.csv")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages for 60 rows, got %d", len(pages))
	}
	for i, p := range pages {
		if !strings.HasPrefix(p, "Headers: name, score") {
			t.Errorf("page %d missing header line: %q", i, p[:min(len(p), 40)])
		}
		if !strings.Contains(p, "name: row, score: 1") {
			t.Errorf("page %d missing labeled row", i)
		}
	}
}

func TestHTMLExtractor_H1SplitsAndSkipsScripts(t *testing.T) {
	src := `<html><head><title>T</title></head><body>
<h1>One</h1><p>First body.</p>
<script>ignore()</script>
<h1>Two</h1><p>Second body.</p>
</body></html>`

	e := &HTMLExtractor{}
	pages, err := e.Extract(strings.NewReader(src), "doc.html")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
	}
	if !strings.Contains(pages[0], "First body.") || !strings.Contains(pages[1], "Second body.") {
		t.Errorf("page bodies missing: %q", pages)
	}
	for _, p := range pages {
		if strings.Contains(p, "ignore()") {
			t.Errorf("script content leaked into page: %q", p)
		}
	}
}
