package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/extractor"
)

type fakeOpener struct {
	OpenFn func(url string) (extractor.PageCloser, error)
}

func (f *fakeOpener) Open(_ context.Context, url string) (extractor.PageCloser, error) {
	return f.OpenFn(url)
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	parser, err := kong.New(&CLI{},
		kong.Writers(stdout, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"serve", "run", "extract"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "extract")
}

func TestRun_ExtractHTML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "problem.html")
	require.NoError(t, os.WriteFile(path, []byte(`<html><body>
		<h1>1. Two Sum</h1>
		<div class="question-content">Given an array of integers nums and an integer target, return indices of the two numbers.</div>
	</body></html>`), 0o644))

	stdout := &bytes.Buffer{}
	err := Run(context.Background(), []string{"extract", "--html", path}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Title: 1. Two Sum")
	assert.Contains(t, stdout.String(), "Given an array of integers")
}

func TestExtractCmd_OpenFailurePrintsFallback(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	deps := &Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: io.Discard,
		Config: config.Defaults(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Opener: &fakeOpener{OpenFn: func(string) (extractor.PageCloser, error) {
			return nil, errors.New("chrome not installed")
		}},
	}

	url := "https://leetcode.com/problems/two-sum/"
	err := (&ExtractCmd{URL: url}).Run(deps)
	require.NoError(t, err)

	assert.Equal(t, extractor.FallbackContent(url)+"\n", stdout.String())
	assert.Contains(t, stdout.String(), "Problem: two sum")
}

func TestRun_ExtractRequiresSource(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), []string{"extract"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_RunRequiresURL(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), []string{"run"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := initLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}
