// Package summarize condenses long text with two-phase map-reduce
// summarization: each chunk is summarized independently, then the
// intermediate summaries are merged in a single final call.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/papertrans/internal/chunker"
	"github.com/dgallion1/papertrans/internal/llm"
	"github.com/dgallion1/papertrans/internal/progress"
)

const (
	// DefaultChunkTokens is larger than the translation budget because the
	// map prompt wraps the chunk instead of sending it raw.
	DefaultChunkTokens = 3000

	mapTemperature    = 0.2
	reduceTemperature = 0.5
)

// DefaultInstruction is used when the caller supplies no reduce instruction.
const DefaultInstruction = "Clearly separate the paper's background and goals, " +
	"methods, and results and conclusions, and summarize each section as bullet points."

const mapPromptFormat = "The following is an excerpt from a paper. " +
	"Summarize the key points of this passage concisely.\n\n---\n%s"

const reduceSystemPrompt = "You are an excellent research assistant. Integrate " +
	"the summary fragments you are given and produce the final answer."

const reducePromptFormat = "The following are summaries of the individual parts " +
	"of a paper. Use them to produce a final summary that follows the user's " +
	"instruction.\n\nUser instruction: %q\n\n---\nPer-part summaries:\n%s"

// Options configures a Summarizer. Zero values fall back to defaults; a nil
// Progress sink discards updates.
type Options struct {
	Model       string
	ChunkTokens int
	Progress    progress.Sink
}

type Summarizer struct {
	backend  llm.Backend
	splitter *chunker.Splitter
	log      *slog.Logger
	opts     Options
}

func New(backend llm.Backend, splitter *chunker.Splitter, log *slog.Logger, opts Options) *Summarizer {
	if opts.ChunkTokens <= 0 {
		opts.ChunkTokens = DefaultChunkTokens
	}
	if opts.Progress == nil {
		opts.Progress = progress.Discard
	}
	return &Summarizer{
		backend:  backend,
		splitter: splitter,
		log:      log,
		opts:     opts,
	}
}

// Summarize maps every chunk of text to an intermediate summary, in order,
// then reduces them with exactly one final call guided by instruction.
// Empty input returns "" with zero backend calls. Any map-phase failure
// aborts the whole summarization: the reduce step depends on every
// intermediate summary, so a partial map cannot produce a meaningful result.
func (s *Summarizer) Summarize(ctx context.Context, text, instruction string) (string, error) {
	if text == "" {
		return "", nil
	}
	if instruction == "" {
		instruction = DefaultInstruction
	}

	chunks := s.splitter.Split(text, s.opts.Model, s.opts.ChunkTokens)
	s.log.Info("summarizing in stages", "parts", len(chunks))

	intermediate := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		reply, err := llm.CompleteWithRetry(ctx, s.backend, s.opts.Model, []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(mapPromptFormat, chunk)},
		}, mapTemperature)
		if err != nil {
			return "", fmt.Errorf("summarize part %d/%d: %w", i+1, len(chunks), err)
		}
		intermediate = append(intermediate, reply)
		s.opts.Progress.Report(float64(i+1)/float64(len(chunks)),
			fmt.Sprintf("summarized part %d/%d", i+1, len(chunks)))
	}

	combined := strings.Join(intermediate, "\n")
	reply, err := llm.CompleteWithRetry(ctx, s.backend, s.opts.Model, []llm.Message{
		{Role: llm.RoleSystem, Content: reduceSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf(reducePromptFormat, instruction, combined)},
	}, reduceTemperature)
	if err != nil {
		return "", fmt.Errorf("final summary: %w", err)
	}
	return reply, nil
}
