package builder

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	exitCode int
	err      error
	writeOut string
	onRun    func(ctx context.Context)
}

func (f *fakeRunner) Run(ctx context.Context, dir string, w io.Writer, name string, args ...string) (int, error) {
	if f.onRun != nil {
		f.onRun(ctx)
	}
	io.WriteString(w, f.writeOut)
	return f.exitCode, f.err
}

func writeJar(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("jar"), 0o644))
}

func TestBuildSucceedsAndLocatesJar(t *testing.T) {
	libsDir := t.TempDir()
	writeJar(t, libsDir, "rubymod-1.0.jar")

	b, err := New(Options{Runner: &fakeRunner{exitCode: 0}, Command: "./gradlew", Args: []string{"build"}})
	require.NoError(t, err)

	result, err := b.Build(context.Background(), t.TempDir(), libsDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(libsDir, "rubymod-1.0.jar"), result.JarPath)
}

func TestBuildFailsOnNonZeroExit(t *testing.T) {
	b, err := New(Options{Runner: &fakeRunner{exitCode: 1, writeOut: "compilation error"}, Command: "./gradlew", Args: []string{"build"}})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), t.TempDir(), t.TempDir())
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.Contains(t, exitErr.Output, "compilation error")
}

func TestBuildFailsWhenNoJarProduced(t *testing.T) {
	libsDir := t.TempDir()
	b, err := New(Options{Runner: &fakeRunner{exitCode: 0}, Command: "./gradlew", Args: []string{"build"}})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), t.TempDir(), libsDir)
	require.Error(t, err)
	var notFound *ArtifactNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestBuildReportsTimeout(t *testing.T) {
	runner := &fakeRunner{
		onRun: func(ctx context.Context) {
			<-ctx.Done()
		},
		exitCode: -1,
		err:      context.DeadlineExceeded,
	}
	b, err := New(Options{Runner: runner, Command: "./gradlew", Args: []string{"build"}, Timeout: 5 * time.Millisecond})
	require.NoError(t, err)

	_, err = b.Build(context.Background(), t.TempDir(), t.TempDir())
	require.Error(t, err)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestBuildHonorsParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{
		onRun: func(rctx context.Context) {
			cancel()
			<-rctx.Done()
		},
		exitCode: -1,
		err:      context.Canceled,
	}
	b, err := New(Options{Runner: runner, Command: "./gradlew", Args: []string{"build"}})
	require.NoError(t, err)

	_, err = b.Build(ctx, t.TempDir(), t.TempDir())
	require.Error(t, err)
}

func TestNewRequiresCommand(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestDefaultCommandRunnerRunsRealProcess(t *testing.T) {
	runner := NewDefaultCommandRunner()
	var out bytes.Buffer
	code, err := runner.Run(context.Background(), t.TempDir(), &out, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "hello")
}

func TestDefaultCommandRunnerReportsNonZeroExit(t *testing.T) {
	runner := NewDefaultCommandRunner()
	var out bytes.Buffer
	code, err := runner.Run(context.Background(), t.TempDir(), &out, "sh", "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}
