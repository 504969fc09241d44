// SPDX-License-Identifier: Apache-2.0

package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kusari-oss/compose/internal/core/result"
)

// Executor runs one external command and waits for it. Failures to start,
// non-zero exits, and timeouts are all reported through the result.
type Executor interface {
	// Execute runs argv in cwd. An empty cwd means the current directory and
	// a zero timeout means the executor's default.
	Execute(argv []string, cwd string, timeout time.Duration) result.ActionResult
}

// DefaultWaitDelay is how long output pipes may stay open after a command
// exited or was killed. Package managers leave children holding them.
const DefaultWaitDelay = 5 * time.Second

// OSExecutor spawns processes directly, never through a shell
type OSExecutor struct {
	environment    []string
	stdout         io.Writer
	stderr         io.Writer
	defaultTimeout time.Duration
	waitDelay      time.Duration
	logger         zerolog.Logger
}

// NewOSExecutor creates an executor with no default timeout
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{waitDelay: DefaultWaitDelay, logger: zerolog.Nop()}
}

// WithWaitDelay bounds the wait for output pipes once the process is gone
func (e *OSExecutor) WithWaitDelay(delay time.Duration) *OSExecutor {
	e.waitDelay = delay
	return e
}

// WithEnvironment sets extra KEY=VALUE pairs appended to the inherited environment
func (e *OSExecutor) WithEnvironment(env []string) *OSExecutor {
	e.environment = env
	return e
}

// WithOutput tees the command's streams to the given writers as it runs
func (e *OSExecutor) WithOutput(stdout, stderr io.Writer) *OSExecutor {
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// WithDefaultTimeout bounds commands executed without their own timeout
func (e *OSExecutor) WithDefaultTimeout(timeout time.Duration) *OSExecutor {
	e.defaultTimeout = timeout
	return e
}

// WithLogger sets the logger used for debug output
func (e *OSExecutor) WithLogger(logger zerolog.Logger) *OSExecutor {
	e.logger = logger
	return e
}

// Execute runs argv and captures its output
func (e *OSExecutor) Execute(argv []string, cwd string, timeout time.Duration) result.ActionResult {
	res := result.ActionResult{Command: append([]string(nil), argv...)}
	if len(argv) == 0 {
		res.ExitCode = -1
		res.Stderr = "empty command"
		return res
	}

	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.WaitDelay = e.waitDelay
	if len(e.environment) > 0 {
		cmd.Env = append(cmd.Environ(), e.environment...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = tee(&stdout, e.stdout)
	cmd.Stderr = tee(&stderr, e.stderr)

	e.logger.Debug().
		Str("command", strings.Join(argv, " ")).
		Str("cwd", cwd).
		Dur("timeout", timeout).
		Msg("executing command")

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.Successful = true
	case ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		res.Stderr = appendLine(res.Stderr, fmt.Sprintf("command timed out after %s", timeout))
	case errors.Is(err, exec.ErrWaitDelay):
		// Exited cleanly; a leftover child kept the pipes open
		res.Successful = true
		e.logger.Debug().Str("command", argv[0]).Msg("output pipes closed after wait delay")
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = 127
		res.Stderr = appendLine(res.Stderr, err.Error())
	default:
		res.ExitCode = -1
		res.Stderr = appendLine(res.Stderr, err.Error())
	}

	e.logger.Debug().
		Str("command", argv[0]).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Bool("successful", res.Successful).
		Msg("command finished")

	return res
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func appendLine(text, line string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text + line
	}
	return text + "\n" + line
}
