package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/solvr/models"
)

type fakeProcessor struct {
	ProcessFn func(url string) (*models.Solution, error)
}

func (f *fakeProcessor) Process(_ context.Context, url string) (*models.Solution, error) {
	return f.ProcessFn(url)
}

type fakeRenderer struct {
	RenderFn func(sol *models.Solution) (*models.Artifact, error)
	calls    atomic.Int32
}

func (f *fakeRenderer) Render(_ context.Context, sol *models.Solution) (*models.Artifact, error) {
	f.calls.Add(1)
	return f.RenderFn(sol)
}

type sendCall struct {
	recipient, path, title string
}

type fakeNotifier struct {
	SendFn func(recipient, path, title string) (*models.Delivery, error)
	mu     sync.Mutex
	calls  []sendCall
}

func (f *fakeNotifier) Send(_ context.Context, recipient, path, title string) (*models.Delivery, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sendCall{recipient, path, title})
	f.mu.Unlock()
	return f.SendFn(recipient, path, title)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func artifactIn(t *testing.T, dir string) *models.Artifact {
	t.Helper()
	path := filepath.Join(dir, "solution_1.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))
	return &models.Artifact{Filename: "solution_1.pdf", Path: path, Size: 4}
}

func okDelivery(string, string, string) (*models.Delivery, error) {
	return &models.Delivery{Success: true, MessageID: "<id>"}, nil
}

func TestRun_HappyPathDeliversAndCleansUp(t *testing.T) {
	t.Parallel()

	art := artifactIn(t, t.TempDir())
	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) {
		return &models.Solution{ProblemStatement: "Two Sum"}, nil
	}}
	rend := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) { return art, nil }}
	note := &fakeNotifier{SendFn: okDelivery}

	p := New(proc, rend, note, "me@example.com", Options{CleanupDelay: 20 * time.Millisecond})
	require.NoError(t, p.Run(context.Background(), "https://leetcode.com/problems/two-sum/"))

	require.Equal(t, 1, note.count())
	assert.Equal(t, sendCall{"me@example.com", art.Path, "Two Sum"}, note.calls[0])
	assert.Eventually(t, func() bool {
		_, err := os.Stat(art.Path)
		return errors.Is(err, os.ErrNotExist)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRun_CleanupToleratesMissingFile(t *testing.T) {
	t.Parallel()

	art := artifactIn(t, t.TempDir())
	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) { return &models.Solution{}, nil }}
	rend := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) { return art, nil }}
	note := &fakeNotifier{SendFn: func(_, path, title string) (*models.Delivery, error) {
		assert.Equal(t, models.DefaultSolutionTitle, title)
		// file disappears before the cleanup timer fires
		return &models.Delivery{Success: true}, os.Remove(path)
	}}

	p := New(proc, rend, note, "me@example.com", Options{CleanupDelay: time.Millisecond})
	require.NoError(t, p.Run(context.Background(), "u"))
	time.Sleep(20 * time.Millisecond)
}

func TestRun_ProcessFailureStopsJob(t *testing.T) {
	t.Parallel()

	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) {
		return nil, models.NewPipelineError(models.ErrCodeParse, "bad json", nil)
	}}
	rend := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) {
		t.Fatal("render must not run")
		return nil, nil
	}}
	note := &fakeNotifier{SendFn: okDelivery}

	err := New(proc, rend, note, "me", Options{}).Run(context.Background(), "u")

	assert.Equal(t, models.ErrCodeParse, models.ErrorCode(err))
	assert.ErrorContains(t, err, "process")
	assert.Zero(t, rend.calls.Load())
	assert.Zero(t, note.count())
}

func TestRun_NotifyFailureKeepsArtifact(t *testing.T) {
	t.Parallel()

	art := artifactIn(t, t.TempDir())
	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) { return &models.Solution{}, nil }}
	rend := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) { return art, nil }}
	note := &fakeNotifier{SendFn: func(string, string, string) (*models.Delivery, error) {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "smtp down", nil)
	}}

	err := New(proc, rend, note, "me", Options{CleanupDelay: time.Millisecond}).Run(context.Background(), "u")

	assert.Equal(t, models.ErrCodeTransport, models.ErrorCode(err))
	time.Sleep(20 * time.Millisecond)
	assert.FileExists(t, art.Path, "no cleanup is scheduled without a successful send")
}

func TestHandle_ReturnsImmediatelyAndRunsInBackground(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) {
		<-release
		return &models.Solution{}, nil
	}}
	art := artifactIn(t, t.TempDir())
	rend := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) { return art, nil }}
	note := &fakeNotifier{SendFn: okDelivery}

	p := New(proc, rend, note, "me", Options{CleanupDelay: time.Hour})
	p.Handle("u1")
	p.Handle("u2")

	assert.Zero(t, note.count(), "jobs are blocked in process")
	close(release)
	assert.Eventually(t, func() bool { return note.count() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestHandle_RecoversPanics(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	proc := &fakeProcessor{ProcessFn: func(string) (*models.Solution, error) {
		defer close(done)
		panic("boom")
	}}

	New(proc, nil, nil, "me", Options{}).Handle("u")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestHandle_AppliesJobTimeout(t *testing.T) {
	t.Parallel()

	gotDeadline := make(chan bool, 1)
	proc := &procCtx{fn: func(ctx context.Context) {
		_, ok := ctx.Deadline()
		gotDeadline <- ok
	}}

	New(proc, nil, nil, "me", Options{JobTimeout: time.Minute}).Handle("u")

	select {
	case ok := <-gotDeadline:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

type procCtx struct {
	fn func(ctx context.Context)
}

func (p *procCtx) Process(ctx context.Context, _ string) (*models.Solution, error) {
	p.fn(ctx)
	return nil, errors.New("stop")
}
