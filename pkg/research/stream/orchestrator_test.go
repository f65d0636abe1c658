package stream

import (
	"context"
	"strings"
	"testing"

	"company-research-be/internal/entity"
	"company-research-be/pkg/llm"
	"company-research-be/pkg/research/prompt"
)

type fakeStreamProvider struct {
	chunks []string
}

func (f *fakeStreamProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(f.chunks, ""), nil
}

func (f *fakeStreamProvider) Generate(ctx context.Context, p string, options ...llm.Option) (string, error) {
	return strings.Join(f.chunks, ""), nil
}

func (f *fakeStreamProvider) Stream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan string, error) {
	ch := make(chan string, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

type fakeSearcher struct {
	snippets []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]string, error) {
	return f.snippets, nil
}

type fakeWebClient struct {
	summary string
}

func (f *fakeWebClient) Search(ctx context.Context, query string, maxResults int) (string, error) {
	return f.summary, nil
}

func TestFrame(t *testing.T) {
	got := Frame("status", "line one\nline two")
	want := "event: status\ndata: line one line two\n\n"
	if got != want {
		t.Errorf("Frame() = %q, want %q", got, want)
	}
}

func TestRunFrameSequence(t *testing.T) {
	builder := prompt.NewBuilder(&fakeSearcher{snippets: []string{"chunk one", "chunk two"}}, &fakeWebClient{summary: "web data"}, 5)
	provider := &fakeStreamProvider{chunks: []string{"{\"over", "view\":", "   ", "\"x\"}"}}
	orch := NewOrchestrator(builder, provider)

	var frames []string
	for frame := range orch.Run(context.Background(), prompt.ResearchInput{
		CompanyName: "Acme Corp",
		Depth:       entity.DepthQuickSummary,
	}) {
		frames = append(frames, frame)
	}

	// 6 leading status frames, 3 non-blank token frames, 2 trailing status, 1 done
	if len(frames) != 12 {
		t.Fatalf("frame count = %d, want 12: %v", len(frames), frames)
	}

	for i := 0; i < 6; i++ {
		if !strings.HasPrefix(frames[i], "event: status\n") {
			t.Errorf("frame %d = %q, want status", i, frames[i])
		}
	}
	if !strings.Contains(frames[2], "2 internal chunks found.") {
		t.Errorf("frame 2 = %q, want chunk count", frames[2])
	}
	if !strings.Contains(frames[4], "Web search complete.") {
		t.Errorf("frame 4 = %q", frames[4])
	}

	for i := 6; i < 9; i++ {
		if !strings.HasPrefix(frames[i], "event: token\n") {
			t.Errorf("frame %d = %q, want token", i, frames[i])
		}
	}

	if !strings.HasPrefix(frames[9], "event: status\n") || !strings.HasPrefix(frames[10], "event: status\n") {
		t.Error("trailing status frames missing")
	}
	if frames[11] != "event: done\ndata: true\n\n" {
		t.Errorf("final frame = %q", frames[11])
	}
}

func TestRunWebUnavailable(t *testing.T) {
	builder := prompt.NewBuilder(&fakeSearcher{}, &fakeWebClient{summary: ""}, 5)
	orch := NewOrchestrator(builder, &fakeStreamProvider{chunks: []string{"text"}})

	var frames []string
	for frame := range orch.Run(context.Background(), prompt.ResearchInput{CompanyName: "Acme Corp", Depth: entity.DepthQuickSummary}) {
		frames = append(frames, frame)
	}

	joined := strings.Join(frames, "")
	if !strings.Contains(joined, "Web search unavailable. Continuing with RAG and LLM synthesis.") {
		t.Error("missing web unavailable status")
	}
	if !strings.Contains(joined, "0 internal chunks found.") {
		t.Error("missing zero chunk count status")
	}
}
