// Package translate turns extracted pages into a translated document, one
// token-bounded chunk at a time.
package translate

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
	// DefaultChunkTokens is the per-request token budget for translation.
	// The chunk is sent raw as the user message, so the budget leaves room
	// for the reply inside the model's context window.
	DefaultChunkTokens = 2000

	// FailedChunkMarker replaces a chunk whose translation call failed, so
	// downstream joins keep their shape.
	FailedChunkMarker = "--- error: this segment could not be translated ---"

	// EmptyPageNotice stands in for a page with no extractable text. Empty
	// pages are never dropped; this keeps page numbering stable.
	EmptyPageNotice = "--- (this page is empty) ---"

	defaultTemperature = 0.2
)

const systemPromptFormat = "You are a professional translator. Translate the " +
	"following text into %s, preserving its meaning precisely and producing " +
	"natural prose. Keep the original formatting and line breaks as much as possible."

// Options configures a Translator. Zero values fall back to defaults; a nil
// Progress sink discards updates.
type Options struct {
	Model          string
	TargetLanguage string
	ChunkTokens    int
	Temperature    float32
	Progress       progress.Sink
	OnError        func(error) // receives per-chunk failures, may be nil
}

// Translator runs the chunk → page → document translation pipeline. All
// model calls are strictly sequential; chunk and page order is preserved
// end to end.
type Translator struct {
	backend  llm.Backend
	splitter *chunker.Splitter
	log      *slog.Logger
	opts     Options
}

func New(backend llm.Backend, splitter *chunker.Splitter, log *slog.Logger, opts Options) *Translator {
	if opts.ChunkTokens <= 0 {
		opts.ChunkTokens = DefaultChunkTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.Progress == nil {
		opts.Progress = progress.Discard
	}
	return &Translator{
		backend:  backend,
		splitter: splitter,
		log:      log,
		opts:     opts,
	}
}

// TranslateChunk issues exactly one backend request for a single chunk and
// returns the reply verbatim. Transient failures are retried before the
// error is surfaced.
func (t *Translator) TranslateChunk(ctx context.Context, chunk string) (string, error) {
	return llm.CompleteWithRetry(ctx, t.backend, t.opts.Model, []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(systemPromptFormat, t.opts.TargetLanguage)},
		{Role: llm.RoleUser, Content: chunk},
	}, t.opts.Temperature)
}

// TranslatePage translates one page's text chunk by chunk, in chunk order,
// joining results with single newlines. A blank page short-circuits to
// EmptyPageNotice without any backend call. A failed chunk is substituted
// with FailedChunkMarker and reported; the page is never abandoned.
func (t *Translator) TranslatePage(ctx context.Context, pageText string, pageNum, totalPages int) string {
	t.opts.Progress.Report(float64(pageNum-1)/float64(totalPages),
		fmt.Sprintf("translating page %d/%d", pageNum, totalPages))

	if strings.TrimSpace(pageText) == "" {
		return EmptyPageNotice
	}

	chunks := t.splitter.Split(pageText, t.opts.Model, t.opts.ChunkTokens)
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		reply, err := t.TranslateChunk(ctx, chunk)
		if err != nil {
			t.log.Error("chunk translation failed", "page", pageNum, "chunk", i, "error", err)
			t.reportError(fmt.Errorf("page %d, chunk %d: %w", pageNum, i+1, err))
			parts = append(parts, FailedChunkMarker)
			continue
		}
		parts = append(parts, reply)
	}
	return strings.Join(parts, "\n")
}

// TranslateDocument translates pages in order and joins the results with
// labeled 1-based page delimiters. An empty page list returns "" with zero
// backend calls and zero progress signals.
func (t *Translator) TranslateDocument(ctx context.Context, pages []string) string {
	if len(pages) == 0 {
		return ""
	}

	t.opts.Progress.Report(0, "preparing translation")

	translated := make([]string, 0, len(pages))
	for i, pageText := range pages {
		if ctx.Err() != nil {
			t.reportError(fmt.Errorf("translation interrupted at page %d: %w", i+1, ctx.Err()))
			break
		}
		translated = append(translated, t.TranslatePage(ctx, pageText, i+1, len(pages)))
	}

	t.opts.Progress.Report(1.0, "translation complete")

	var b strings.Builder
	for i, content := range translated {
		if i > 0 {
			b.WriteString("\n\n\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n\n%s", i+1, content)
	}
	return b.String()
}

func (t *Translator) reportError(err error) {
	if t.opts.OnError != nil {
		t.opts.OnError(err)
	}
}
