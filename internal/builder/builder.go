// Package builder invokes the external build command (the Gradle wrapper)
// in a run's workspace directory and locates the resulting JAR. It is
// grounded on other_examples' dag executor: a narrow CommandRunner
// interface satisfied by a real os/exec runner or a test double, so the
// scheduling code above never imports os/exec directly.
package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// CommandRunner executes a command in a working directory, streaming its
// combined output to w and returning its exit code.
type CommandRunner interface {
	Run(ctx context.Context, dir string, w io.Writer, name string, args ...string) (exitCode int, err error)
}

// GracePeriod bounds how long a command is given to exit after being
// interrupted before it is killed outright.
const GracePeriod = 10 * time.Second

type defaultCommandRunner struct{}

// NewDefaultCommandRunner returns a CommandRunner backed by os/exec. A
// context cancellation sends SIGINT to the child and, if it has not exited
// within GracePeriod, sends SIGKILL.
func NewDefaultCommandRunner() CommandRunner {
	return &defaultCommandRunner{}
}

func (r *defaultCommandRunner) Run(ctx context.Context, dir string, w io.Writer, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGINT)
	}
	cmd.WaitDelay = GracePeriod

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// Options configures a Builder.
type Options struct {
	// Runner executes the build command. Defaults to NewDefaultCommandRunner().
	Runner CommandRunner
	// Command and Args invoke the build, e.g. "./gradlew", []string{"build"}.
	Command string
	Args    []string
	// Timeout bounds the whole build invocation.
	Timeout time.Duration
}

// Builder runs the configured build command and locates the resulting JAR
// under the conventional runs/<id>/build/libs directory, per spec.md §6.
type Builder struct {
	runner  CommandRunner
	command string
	args    []string
	timeout time.Duration
}

func New(opts Options) (*Builder, error) {
	if opts.Command == "" {
		return nil, errors.New("builder: command is required")
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewDefaultCommandRunner()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Builder{runner: runner, command: opts.Command, args: opts.Args, timeout: timeout}, nil
}

// Result carries the outcome of a successful build.
type Result struct {
	JarPath string
	Output  string
}

// Build runs the build command inside dir and returns the path of the JAR
// found under libsDir. It fails if the command exits non-zero, times out,
// or leaves no JAR behind.
func (b *Builder) Build(ctx context.Context, dir, libsDir string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var out bytes.Buffer
	exitCode, err := b.runner.Run(ctx, dir, &out, b.command, b.args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{}, &TimeoutError{Command: b.commandLine(), Timeout: b.timeout.String()}
		}
		return Result{}, fmt.Errorf("builder: run %s: %w", b.commandLine(), err)
	}
	if exitCode != 0 {
		return Result{}, &ExitError{Command: b.commandLine(), ExitCode: exitCode, Output: out.String()}
	}

	jarPath, err := findJar(libsDir)
	if err != nil {
		return Result{}, err
	}
	return Result{JarPath: jarPath, Output: out.String()}, nil
}

func (b *Builder) commandLine() string {
	if len(b.args) == 0 {
		return b.command
	}
	return b.command + " " + strings.Join(b.args, " ")
}

// findJar returns the first *.jar file filepath.WalkDir visits under dir
// (lexical, depth-first order); a shallower jar is not preferred over one
// in an earlier-sorting subdirectory. It errors if dir does not exist or
// contains no jar.
func findJar(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		return "", &ArtifactNotFoundError{Dir: dir}
	}

	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || found != "" {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".jar") {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("builder: search %s: %w", dir, err)
	}
	if found == "" {
		return "", &ArtifactNotFoundError{Dir: dir}
	}
	return found, nil
}
