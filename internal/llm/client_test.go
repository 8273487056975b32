package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mythicalprogrammer/exRPG/internal/llm/provider"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
)

type fakeProvider struct {
	reply string
	err   error

	mu   sync.Mutex
	last provider.GenerateRequest
}

func (f *fakeProvider) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	return f.reply, f.err
}

func (f *fakeProvider) Validate() error { return nil }
func (f *fakeProvider) Close() error    { return nil }

func (f *fakeProvider) lastRequest() provider.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func TestGenerate_NoProvider(t *testing.T) {
	cli, err := New(WithLogger(slog.Default()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cli.Available() {
		t.Fatal("expected client without provider to be unavailable")
	}

	for _, req := range []workout.WorkoutRequest{{Name: "Alice"}, {Name: "Bob", Prompt: "legs"}} {
		got, err := cli.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got.Source != workout.SourceUnavailable {
			t.Fatalf("expected unavailable fallback, got %s", got.Source)
		}
		if len(got.Plan.Exercises) != 2 || got.Plan.Exercises[0].Name != "Push-ups" || got.Plan.Exercises[1].Name != "Squats" {
			t.Fatalf("unexpected plan: %+v", got.Plan)
		}
	}
	if err := cli.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestGenerate_Success(t *testing.T) {
	fp := &fakeProvider{reply: `Sure! {"exercises":[{"name":"Lunges","sets":3,"reps":"10","bodyPart":"Legs"}],"notes":"ok"} Hope that helps!`}
	cli, err := New(WithProvider(fp), WithLogger(slog.Default()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := cli.Generate(context.Background(), workout.WorkoutRequest{Name: "Alice", Prompt: "leg day"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Source != workout.SourceModel {
		t.Fatalf("expected model source, got %s (%v)", got.Source, got.Err)
	}
	want := workout.Exercise{Name: "Lunges", Sets: 3, Reps: "10", BodyPart: "Legs"}
	if len(got.Plan.Exercises) != 1 || got.Plan.Exercises[0] != want || got.Plan.Notes != "ok" {
		t.Fatalf("unexpected plan: %+v", got.Plan)
	}

	req := fp.lastRequest()
	if req.MaxTokens != 1000 || req.Temperature != 0.7 {
		t.Fatalf("unexpected generation params: %+v", req)
	}
	if len(req.Stop) != 2 || req.Stop[0] != "User request:" || req.Stop[1] != "\n\n" {
		t.Fatalf("unexpected stop sequences: %q", req.Stop)
	}
	if !strings.Contains(req.Prompt, "User request: leg day") || !strings.HasSuffix(req.Prompt, PromptCue) {
		t.Fatalf("unexpected prompt: %q", req.Prompt)
	}
}

func TestGenerate_NoJSONFallsBack(t *testing.T) {
	cli, err := New(WithProvider(&fakeProvider{reply: "I cannot produce that."}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := cli.Generate(context.Background(), workout.WorkoutRequest{Name: "Alice"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Source != workout.SourceExtraction {
		t.Fatalf("expected extraction fallback, got %s", got.Source)
	}
	if got.Plan.Exercises[0].Name != "Jumping Jacks" || !strings.Contains(got.Plan.Notes, "No JSON found") {
		t.Fatalf("unexpected plan: %+v", got.Plan)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	boom := errors.New("model crashed")
	cli, err := New(WithProvider(&fakeProvider{err: boom}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = cli.Generate(context.Background(), workout.WorkoutRequest{Name: "Alice"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

type blockingProvider struct {
	active  atomic.Int32
	maxSeen atomic.Int32
	release chan struct{}
}

func (b *blockingProvider) Generate(ctx context.Context, req provider.GenerateRequest) (string, error) {
	n := b.active.Add(1)
	defer b.active.Add(-1)
	for {
		m := b.maxSeen.Load()
		if n <= m || b.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	select {
	case <-b.release:
		return `{"exercises":[{"name":"Row","sets":3,"reps":"10","bodyPart":"Back"}]}`, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *blockingProvider) Validate() error { return nil }
func (b *blockingProvider) Close() error    { return nil }

func TestGenerate_SerializesCalls(t *testing.T) {
	bp := &blockingProvider{release: make(chan struct{})}
	cli, err := New(WithProvider(bp), WithParallelism(1))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cli.Generate(context.Background(), workout.WorkoutRequest{Name: "Alice"})
			errs <- err
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(bp.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	if got := bp.maxSeen.Load(); got != 1 {
		t.Fatalf("expected at most one concurrent generation, saw %d", got)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	bp := &blockingProvider{release: make(chan struct{})}
	cli, err := New(WithProvider(bp), WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = cli.Generate(context.Background(), workout.WorkoutRequest{Name: "Alice"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGenerate_CancelledWhileWaitingForSlot(t *testing.T) {
	bp := &blockingProvider{release: make(chan struct{})}
	defer close(bp.release)
	cli, err := New(WithProvider(bp))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	go cli.Generate(context.Background(), workout.WorkoutRequest{Name: "first"}) //nolint:errcheck
	for bp.active.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cli.Generate(ctx, workout.WorkoutRequest{Name: "second"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	if _, err := New(WithParallelism(0)); err == nil {
		t.Fatal("expected error for zero parallelism")
	}
	if _, err := New(WithTimeout(0)); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

type invalidProvider struct{ fakeProvider }

func (*invalidProvider) Validate() error { return errors.New("model path not set") }

func TestNew_ValidatesProvider(t *testing.T) {
	if _, err := New(WithProvider(&invalidProvider{})); err == nil {
		t.Fatal("expected validation error")
	}
}
