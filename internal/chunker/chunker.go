// Package chunker splits text into token-bounded chunks for model calls.
package chunker

import "strings"

// TokenCounter is the token-count oracle used to plan chunk boundaries.
type TokenCounter interface {
	Count(text, model string) int
}

// Splitter produces ordered chunks that stay at or under a token budget.
type Splitter struct {
	tokens TokenCounter
}

func New(tokens TokenCounter) *Splitter {
	return &Splitter{tokens: tokens}
}

// Split divides text into chunks of at most maxTokens tokens each, preserving
// order. Lines are accumulated greedily on newline boundaries; a single line
// that alone exceeds the budget is cut by character proportion and re-measured
// until the remainder fits. Empty input yields no chunks.
func (s *Splitter) Split(text, model string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	if maxTokens < 1 {
		maxTokens = 1
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if s.tokens.Count(current.String()+line+"\n", model) <= maxTokens {
			current.WriteString(line)
			current.WriteString("\n")
			continue
		}

		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}

		line = s.forceSplit(&chunks, line, model, maxTokens)
		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// forceSplit cuts an oversized line by the ratio of the budget to its token
// count, emitting the prefix as its own chunk and re-measuring the remainder
// until it fits. The cut point is rune-based, so the remainder is always
// re-counted rather than assumed proportional, and it is clamped so that
// every iteration strictly shrinks the line.
func (s *Splitter) forceSplit(chunks *[]string, line, model string, maxTokens int) string {
	for {
		count := s.tokens.Count(line, model)
		if count <= maxTokens {
			return line
		}
		runes := []rune(line)
		if len(runes) < 2 {
			// A single rune is atomic; it lands in the buffer even when it
			// busts the budget.
			return line
		}
		cut := int(float64(len(runes)) * float64(maxTokens) / float64(count))
		if cut < 1 {
			cut = 1
		}
		if cut >= len(runes) {
			cut = len(runes) - 1
		}
		*chunks = append(*chunks, string(runes[:cut]))
		line = string(runes[cut:])
	}
}
