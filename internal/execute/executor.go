package execute

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/oshokin/android-sdk-tools/internal/logger"
)

// outputTailLines is how many trailing output lines an Error keeps.
const outputTailLines = 20

// Command describes one invocation of an external binary.
type Command struct {
	// Path is the binary to run.
	Path string
	// Args are passed to the binary as a discrete argv, never through a shell.
	Args []string
	// Env replaces the child environment. A nil map inherits the parent environment.
	Env map[string]string
	// Interactive streams output to the terminal and forwards stdin when it is a TTY.
	Interactive bool
	// Sensitive hides Args and captured output from logs and errors.
	Sensitive bool
}

// String renders the command for logs, hiding arguments of sensitive commands.
func (c Command) String() string {
	if c.Sensitive {
		return fmt.Sprintf("%s [%d arguments hidden]", c.Path, len(c.Args))
	}

	if len(c.Args) == 0 {
		return c.Path
	}

	return c.Path + " " + strings.Join(c.Args, " ")
}

// Runner executes commands and waits for them to finish.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Error reports a failed command. It unwraps to the error returned by os/exec,
// so *exec.ExitError and exec.ErrNotFound remain reachable with errors.As/Is.
type Error struct {
	// Name is the base name of the binary.
	Name string
	// Output holds the last lines of captured output, empty for interactive and
	// sensitive commands.
	Output string
	// Err is the underlying os/exec error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}

	return fmt.Sprintf("%s: %v\n%s", e.Name, e.Err, e.Output)
}

// Unwrap returns the underlying os/exec error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status of the command or -1 when it did not exit normally.
func (e *Error) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

// Executor is the os/exec backed Runner.
type Executor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option customizes an Executor.
type Option func(*Executor)

// WithStreams overrides the terminal streams used by interactive commands.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Executor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// NewExecutor creates an Executor bound to the process standard streams.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run starts cmd and waits for it. It blocks until the child exits or ctx is canceled.
func (e *Executor) Run(ctx context.Context, cmd Command) error {
	name := filepath.Base(cmd.Path)

	logger.DebugKV(ctx, "Running command", "command", cmd.String())

	//nolint:gosec // Binaries are resolved under the configured SDK root.
	child := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	child.Env = EnvList(cmd.Env)

	if cmd.Interactive {
		child.Stdout = e.stdout
		child.Stderr = e.stderr

		if isTerminal(e.stdin) {
			child.Stdin = e.stdin
		}

		if err := child.Run(); err != nil {
			return &Error{Name: name, Err: err}
		}

		return nil
	}

	var output bytes.Buffer

	child.Stdout = &output
	child.Stderr = &output

	err := child.Run()

	if output.Len() > 0 && !cmd.Sensitive {
		logger.DebugKV(ctx, "Command output", "command", name, "output", output.String())
	}

	if err != nil {
		failure := &Error{Name: name, Err: err}
		if !cmd.Sensitive {
			failure.Output = tail(output.String(), outputTailLines)
		}

		return failure
	}

	return nil
}

// EnvList converts env into a sorted KEY=VALUE slice. A nil map yields nil.
func EnvList(env map[string]string) []string {
	if env == nil {
		return nil
	}

	list := make([]string, 0, len(env))
	for key, value := range env {
		list = append(list, key+"="+value)
	}

	sort.Strings(list)

	return list
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok || f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
