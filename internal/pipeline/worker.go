package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/papertrans/internal/chunker"
	"github.com/dgallion1/papertrans/internal/config"
	"github.com/dgallion1/papertrans/internal/extract"
	"github.com/dgallion1/papertrans/internal/export"
	"github.com/dgallion1/papertrans/internal/llm"
	"github.com/dgallion1/papertrans/internal/progress"
	"github.com/dgallion1/papertrans/internal/summarize"
	"github.com/dgallion1/papertrans/internal/translate"
)

// Worker processes a single document job: extract pages, then translate
// and/or summarize them, then render the Markdown report.
type Worker struct {
	backend llm.Backend
	tokens  chunker.TokenCounter
	log     *slog.Logger
	cfg     config.Config
}

func NewWorker(backend llm.Backend, tokens chunker.TokenCounter, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		backend: backend,
		tokens:  tokens,
		log:     log,
		cfg:     cfg,
	}
}

// Process runs the full pipeline for a job. Extraction failures and an
// unreachable backend are fatal and stop the run before any model call
// consumes quota; per-chunk translation failures degrade to sentinels.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: extract per-page text.
	job.SetStatus(StatusExtracting, "extracting")
	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if p, ok := ex.(*extract.PDFExtractor); ok {
		p.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}

	pages, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if len(pages) == 0 {
		log.Warn("no extractable content")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetTotalPages(len(pages))
	log.Info("extracted document", "pages", len(pages))

	// Verify the backend before issuing any model call.
	if err := w.backend.Ping(ctx); err != nil {
		log.Error("backend unavailable", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "backend")
		return
	}

	splitter := chunker.New(w.tokens)
	sink := progress.Func(job.ReportProgress)

	var translated, summary string

	// Phase 2: translation path.
	if job.Mode == ModeTranslate || job.Mode == ModeBoth {
		job.SetStatus(StatusTranslating, "translating")
		tr := translate.New(w.backend, splitter, log, translate.Options{
			Model:          w.cfg.OpenAIModel,
			TargetLanguage: job.TargetLanguage,
			ChunkTokens:    w.cfg.TranslateChunkTokens,
			Progress:       sink,
			OnError:        func(err error) { job.AddError(err.Error()) },
		})
		translated = tr.TranslateDocument(ctx, pages)
	}

	// Phase 3: summarization path.
	if job.Mode == ModeSummarize || job.Mode == ModeBoth {
		job.SetStatus(StatusSummarizing, "summarizing")
		source := strings.Join(pages, "\n")
		if job.SummarySource == SourceTranslation && translated != "" {
			source = translated
		}
		sm := summarize.New(w.backend, splitter, log, summarize.Options{
			Model:       w.cfg.OpenAIModel,
			ChunkTokens: w.cfg.SummarizeChunkTokens,
			Progress:    sink,
		})
		summary, err = sm.Summarize(ctx, source, job.Instruction)
		if err != nil {
			log.Error("summarization failed", "error", err)
			job.AddError(fmt.Sprintf("summarize: %s", err))
			if translated == "" {
				job.SetStatus(StatusFailed, "summarizing")
				return
			}
			// The translation path already produced output; ship it partial.
		}
	}

	// Phase 4: render the report.
	job.SetStatus(StatusRendering, "rendering")
	job.SetResult(export.Markdown(job.Filename, summary, translated))

	if job.HasErrors() {
		job.SetStatus(StatusPartial, "done")
		log.Info("job finished with errors")
		return
	}
	job.SetStatus(StatusCompleted, "done")
	log.Info("job completed")
}
