package core

import (
	"context"
	"strings"
	"time"
)

// LabelRequest is a single label submission. Only Line1 is required.
type LabelRequest struct {
	Line1       string
	Line2       string
	Line3       string
	Line4       string
	PrinterName string
	LabelSize   string
}

func (r LabelRequest) lines() []string {
	return []string{r.Line1, r.Line2, r.Line3, r.Line4}
}

func (r LabelRequest) printerOverride() string {
	return strings.TrimSpace(r.PrinterName)
}

func (r LabelRequest) labelSize() string {
	return strings.TrimSpace(r.LabelSize)
}

// Submission describes one finished submission attempt. Err is nil when the
// gateway accepted the job.
type Submission struct {
	JobID     string
	Printer   string
	Text      string
	LabelSize string
	Err       error
	At        time.Time
}

// Succeeded reports whether the gateway accepted the job.
func (s Submission) Succeeded() bool {
	return s.Err == nil
}

// SubmissionObserver is notified after every submission that reached the
// printer-resolution stage. Implementations must not block for long.
type SubmissionObserver interface {
	ObserveSubmission(ctx context.Context, s Submission)
}

// ProcessResult is what a finished external command produced.
type ProcessResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with status zero.
func (r *ProcessResult) Success() bool {
	return r.ExitCode == 0
}

// ProcessRunner runs an external command to completion, feeding stdin and
// collecting both output streams. A non-zero exit is reported through
// ProcessResult, not as an error; errors mean the command could not be run.
type ProcessRunner interface {
	Run(ctx context.Context, name string, args []string, stdin []byte) (*ProcessResult, error)
}
