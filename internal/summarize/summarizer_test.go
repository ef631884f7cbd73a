package summarize

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/papertrans/internal/chunker"
	"github.com/dgallion1/papertrans/internal/llm"
	"github.com/dgallion1/papertrans/internal/progress"
)

type runeCounter struct{}

func (runeCounter) Count(text, model string) int {
	return len([]rune(text))
}

// fakeBackend records every request and answers with scripted replies.
type fakeBackend struct {
	requests [][]llm.Message
	failOn   map[int]error
}

func (f *fakeBackend) Complete(ctx context.Context, model string, messages []llm.Message, temperature float32) (string, error) {
	call := len(f.requests)
	f.requests = append(f.requests, messages)
	if err, ok := f.failOn[call]; ok {
		return "", err
	}
	if messages[0].Role == llm.RoleSystem {
		return "final summary", nil
	}
	return "part summary", nil
}

func (f *fakeBackend) Ping(ctx context.Context) error { return nil }

func newTestSummarizer(backend llm.Backend, opts Options) *Summarizer {
	if opts.Model == "" {
		opts.Model = "gpt-4o"
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(backend, chunker.New(runeCounter{}), log, opts)
}

func TestSummarize_EmptyInput(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSummarizer(backend, Options{})

	out, err := s.Summarize(context.Background(), "", "anything")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty summary, got %q", out)
	}
	if len(backend.requests) != 0 {
		t.Errorf("expected zero backend calls, got %d", len(backend.requests))
	}
}

func TestSummarize_MapThenSingleReduce(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSummarizer(backend, Options{ChunkTokens: 10})

	// Six short lines under a 10-token budget yield three map chunks.
	text := strings.TrimSuffix(strings.Repeat("aaaa\n", 6), "\n")
	out, err := s.Summarize(context.Background(), text, "keep it short")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if out != "final summary" {
		t.Errorf("expected reduce reply verbatim, got %q", out)
	}

	if len(backend.requests) != 4 {
		t.Fatalf("expected 3 map calls + 1 reduce call, got %d", len(backend.requests))
	}
	// Map calls are single user messages; only the last call carries the
	// reduce system prompt.
	for i := 0; i < 3; i++ {
		req := backend.requests[i]
		if len(req) != 1 || req[0].Role != llm.RoleUser {
			t.Errorf("map call %d: expected single user message, got %+v", i, req)
		}
	}
	reduce := backend.requests[3]
	if len(reduce) != 2 || reduce[0].Role != llm.RoleSystem {
		t.Fatalf("reduce call: expected system+user messages, got %+v", reduce)
	}
	if !strings.Contains(reduce[1].Content, "keep it short") {
		t.Errorf("reduce prompt should embed the instruction, got %q", reduce[1].Content)
	}
	if !strings.Contains(reduce[1].Content, "part summary") {
		t.Errorf("reduce prompt should embed the intermediate summaries, got %q", reduce[1].Content)
	}
}

func TestSummarize_MapFailureAbortsWithoutReduce(t *testing.T) {
	backend := &fakeBackend{failOn: map[int]error{1: errors.New("boom")}}
	s := newTestSummarizer(backend, Options{ChunkTokens: 10})

	text := strings.TrimSuffix(strings.Repeat("aaaa\n", 6), "\n")
	out, err := s.Summarize(context.Background(), text, "")
	if err == nil {
		t.Fatal("expected error from failed map call")
	}
	if out != "" {
		t.Errorf("expected empty result on abort, got %q", out)
	}
	// Two map calls were attempted (second failed); the reduce call and the
	// remaining map call must not happen.
	if len(backend.requests) != 2 {
		t.Errorf("expected 2 backend calls before abort, got %d", len(backend.requests))
	}
}

func TestSummarize_ReduceFailureSurfaces(t *testing.T) {
	backend := &fakeBackend{failOn: map[int]error{1: errors.New("reduce down")}}
	s := newTestSummarizer(backend, Options{ChunkTokens: 1000})

	out, err := s.Summarize(context.Background(), "a single short text", "")
	if err == nil {
		t.Fatal("expected error from failed reduce call")
	}
	if out != "" {
		t.Errorf("expected empty result, got %q", out)
	}
}

func TestSummarize_DefaultInstruction(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSummarizer(backend, Options{ChunkTokens: 1000})

	if _, err := s.Summarize(context.Background(), "short text", ""); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	reduce := backend.requests[len(backend.requests)-1]
	if !strings.Contains(reduce[1].Content, "background and goals") {
		t.Errorf("expected default instruction in reduce prompt, got %q", reduce[1].Content)
	}
}

func TestSummarize_ProgressPerPart(t *testing.T) {
	backend := &fakeBackend{}
	var labels []string
	s := newTestSummarizer(backend, Options{
		ChunkTokens: 10,
		Progress: progress.Func(func(fraction float64, label string) {
			labels = append(labels, label)
		}),
	})

	text := strings.TrimSuffix(strings.Repeat("aaaa\n", 6), "\n")
	if _, err := s.Summarize(context.Background(), text, ""); err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := []string{"summarized part 1/3", "summarized part 2/3", "summarized part 3/3"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d progress signals, got %d: %v", len(want), len(labels), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("signal %d: expected %q, got %q", i, want[i], labels[i])
		}
	}
}
