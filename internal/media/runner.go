// Package media wraps the external ffmpeg/ffprobe tooling behind typed
// command invocations: arguments are passed as structured lists, and
// failures carry the command, exit code and stderr instead of a bare error
// string.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output is the captured result of one external command invocation.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts process execution so tests can inject fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

// CommandError describes a failed tool invocation.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if len(stderr) > 300 {
		stderr = stderr[:300]
	}
	if stderr == "" {
		return fmt.Sprintf("%s failed (exit=%d)", e.Name, e.ExitCode)
	}
	return fmt.Sprintf("%s failed (exit=%d): %s", e.Name, e.ExitCode, stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner executes commands via os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		out.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		}
		return out, &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: out.ExitCode,
			Stderr:   out.Stderr,
			Err:      err,
		}
	}
	return out, nil
}
