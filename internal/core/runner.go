package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

// waitDelay caps how long Wait lingers on inherited pipes after the command
// was killed.
const waitDelay = 5 * time.Second

// ExecRunner runs commands on the host with os/exec.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewExecRunner(timeout time.Duration, logger *zap.Logger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRunner{Timeout: timeout, Logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (*ProcessResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	r.Logger.Debug("executing command",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.Int("stdin_bytes", len(stdin)))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	// os/exec drains both streams concurrently with feeding stdin.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", name, ctx.Err())
		}
		// A signal-terminated command reports ExitCode -1 and still counts
		// as a gateway rejection.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessResult{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
			}, nil
		}
		return nil, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return &ProcessResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}, nil
}
