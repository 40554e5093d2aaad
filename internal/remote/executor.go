package remote

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a worst-case image build plus repository clone.
const DefaultTimeout = 600 * time.Second

// Target identifies a remote host and the account commands run as.
type Target struct {
	Host string
	User string
	Port int
}

func (t Target) String() string {
	return fmt.Sprintf("%s@%s:%d", t.User, t.Host, t.Port)
}

// Executor runs a shell command on a remote host and returns its combined
// stdout+stderr. A non-zero exit or a timeout is a hard failure; retry
// policy belongs to the caller.
type Executor interface {
	Execute(ctx context.Context, target Target, command string) (string, error)
}

// TimeoutError reports a command that did not complete within the timeout.
type TimeoutError struct {
	Target  Target
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("ssh timeout (%s) executing command on %s", e.Timeout, e.Target)
}

// ExitError reports a command that completed with a non-zero exit code.
type ExitError struct {
	Target   Target
	ExitCode int
	Output   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ssh command on %s exited with code %d:\n%s", e.Target, e.ExitCode, e.Output)
}

// SSHExecutor shells out to the ssh binary. It implements no part of the
// SSH protocol itself.
type SSHExecutor struct {
	binary  string
	timeout time.Duration
	log     zerolog.Logger
}

func NewSSHExecutor(timeout time.Duration, log zerolog.Logger) *SSHExecutor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SSHExecutor{binary: "ssh", timeout: timeout, log: log}
}

// Execute implements Executor.
func (e *SSHExecutor) Execute(ctx context.Context, target Target, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.log.Info().
		Str("target", target.String()).
		Str("command", preview(command, 100)).
		Msg("ssh execute")

	cmd := exec.CommandContext(ctx, e.binary,
		"-p", fmt.Sprint(target.Port),
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "ConnectTimeout=10",
		fmt.Sprintf("%s@%s", target.User, target.Host),
		command,
	)
	out, err := cmd.CombinedOutput()
	output := string(out)

	if ctx.Err() == context.DeadlineExceeded {
		terr := &TimeoutError{Target: target, Timeout: e.timeout}
		e.log.Error().Str("target", target.String()).Msg(terr.Error())
		return output, terr
	}
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		eerr := &ExitError{Target: target, ExitCode: code, Output: output}
		e.log.Error().Str("target", target.String()).Int("exit_code", code).Msg("ssh command failed")
		return output, eerr
	}

	e.log.Info().Str("target", target.String()).Msg("ssh ok")
	return output, nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
