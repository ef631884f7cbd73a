package chunker

import (
	"strings"
	"testing"
)

// runeCounter counts one token per rune, which makes chunk boundaries exact
// and the proportional force-split cut deterministic in tests.
type runeCounter struct{}

func (runeCounter) Count(text, model string) int {
	return len([]rune(text))
}

func TestSplit_EmptyInput(t *testing.T) {
	s := New(runeCounter{})
	if chunks := s.Split("", "gpt-4o", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
}

func TestSplit_EverythingFitsInOneChunk(t *testing.T) {
	s := New(runeCounter{})
	text := "Hello world\nLine two\nLine three"

	chunks := s.Split(text, "gpt-4o", 1000)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text+"\n" {
		t.Errorf("expected whole text with trailing newline, got %q", chunks[0])
	}
}

func TestSplit_ExactlyAtBudget(t *testing.T) {
	s := New(runeCounter{})
	// 9 runes plus the appended newline is exactly 10 tokens.
	chunks := s.Split("123456789", "gpt-4o", 10)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	counter := runeCounter{}
	if got := counter.Count(chunks[0], "gpt-4o"); got != 10 {
		t.Errorf("expected chunk of exactly 10 tokens, got %d", got)
	}
}

func TestSplit_GreedyAccumulation(t *testing.T) {
	s := New(runeCounter{})
	// Each line costs 5 tokens with its newline; budget holds two lines.
	text := strings.TrimSuffix(strings.Repeat("aaaa\n", 6), "\n")

	chunks := s.Split(text, "gpt-4o", 10)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks of two lines each, got %d: %q", len(chunks), chunks)
	}
	for i, c := range chunks {
		if c != "aaaa\naaaa\n" {
			t.Errorf("chunk %d: expected two lines, got %q", i, c)
		}
	}
}

func TestSplit_BudgetInvariant(t *testing.T) {
	s := New(runeCounter{})
	counter := runeCounter{}
	text := strings.Repeat("The quick brown fox.\nJumps over the lazy dog.\n", 20)

	const maxTokens = 60
	chunks := s.Split(text, "gpt-4o", maxTokens)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := counter.Count(c, "gpt-4o"); n > maxTokens {
			t.Errorf("chunk %d: %d tokens exceeds budget %d", i, n, maxTokens)
		}
	}
}

func TestSplit_OrderAndContentPreserved(t *testing.T) {
	s := New(runeCounter{})
	text := "alpha\nbravo\ncharlie\ndelta\necho"

	chunks := s.Split(text, "gpt-4o", 14)

	joined := strings.Join(chunks, "")
	if joined != text+"\n" {
		t.Errorf("concatenated chunks differ from input:\nwant %q\ngot  %q", text+"\n", joined)
	}
}

func TestSplit_ForceSplitOversizedLine(t *testing.T) {
	s := New(runeCounter{})
	counter := runeCounter{}

	// One unbroken line at ~5x the budget. 45 runes against a budget of 10
	// forces four proportional cuts; the 5-rune remainder plus its newline
	// still fits.
	line := strings.Repeat("x", 45)
	const maxTokens = 10

	chunks := s.Split(line, "gpt-4o", maxTokens)

	if len(chunks) < 4 {
		t.Fatalf("expected multiple force-split chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := counter.Count(c, "gpt-4o"); n > maxTokens {
			t.Errorf("chunk %d: %d tokens exceeds budget %d", i, n, maxTokens)
		}
	}

	// No characters lost or duplicated.
	joined := strings.Join(chunks, "")
	if joined != line+"\n" {
		t.Errorf("force-split chunks do not reassemble the line:\nwant %q\ngot  %q", line+"\n", joined)
	}
}

func TestSplit_ForceSplitMultiByte(t *testing.T) {
	s := New(runeCounter{})

	// Multi-byte input must never be cut mid-rune.
	line := strings.Repeat("日本語のテキスト", 10)
	chunks := s.Split(line, "gpt-4o", 12)

	for i, c := range chunks {
		for _, r := range c {
			if r == '�' {
				t.Fatalf("chunk %d contains a replacement rune: %q", i, c)
			}
		}
	}
	if joined := strings.Join(chunks, ""); joined != line+"\n" {
		t.Errorf("chunks do not reassemble the input")
	}
}

func TestSplit_BlankLinesRetained(t *testing.T) {
	s := New(runeCounter{})
	text := "first\n\nsecond"

	chunks := s.Split(text, "gpt-4o", 100)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "first\n\nsecond\n" {
		t.Errorf("blank line dropped: %q", chunks[0])
	}
}
