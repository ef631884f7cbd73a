package export

import (
	"strings"
	"testing"
)

func TestMarkdown_AllSections(t *testing.T) {
	out := string(Markdown("paper.pdf", "the overview", "the translation"))

	if !strings.HasPrefix(out, "# 📄 Results for \"paper.pdf\"\n\n") {
		t.Errorf("missing title, got %q", out)
	}
	overviewIdx := strings.Index(out, "## Overview")
	ruleIdx := strings.Index(out, "\n---\n")
	translationIdx := strings.Index(out, "## Full Translation")
	if overviewIdx < 0 || ruleIdx < 0 || translationIdx < 0 {
		t.Fatalf("missing section in %q", out)
	}
	if !(overviewIdx < ruleIdx && ruleIdx < translationIdx) {
		t.Errorf("sections out of order in %q", out)
	}
}

func TestMarkdown_SummaryOnly(t *testing.T) {
	out := string(Markdown("paper.pdf", "the overview", ""))
	if !strings.Contains(out, "## Overview") {
		t.Errorf("missing overview section")
	}
	if strings.Contains(out, "## Full Translation") {
		t.Errorf("unexpected translation section in %q", out)
	}
}

func TestMarkdown_TranslationOnly(t *testing.T) {
	out := string(Markdown("paper.pdf", "", "the translation"))
	if strings.Contains(out, "## Overview") {
		t.Errorf("unexpected overview section in %q", out)
	}
	if !strings.Contains(out, "## Full Translation\n\nthe translation") {
		t.Errorf("missing translation section in %q", out)
	}
}

func TestResultFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"paper.pdf", "paper_result.md"},
		{"notes.txt", "notes_result.md"},
		{"no-extension", "no-extension_result.md"},
	}
	for _, tt := range tests {
		if got := ResultFilename(tt.in); got != tt.want {
			t.Errorf("ResultFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
