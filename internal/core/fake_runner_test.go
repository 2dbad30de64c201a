package core

import (
	"context"
	"errors"
	"sync"
)

type invocation struct {
	Name  string
	Args  []string
	Stdin string
}

// fakeRunner answers lpstat and lp with canned results and records calls.
type fakeRunner struct {
	mu    sync.Mutex
	calls []invocation

	lpstat    *ProcessResult
	lpstatErr error
	lp        *ProcessResult
	lpErr     error
}

func (f *fakeRunner) Run(_ context.Context, name string, args []string, stdin []byte) (*ProcessResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, invocation{Name: name, Args: append([]string(nil), args...), Stdin: string(stdin)})
	f.mu.Unlock()

	switch name {
	case "lpstat":
		if f.lpstatErr != nil {
			return nil, f.lpstatErr
		}
		if f.lpstat == nil {
			return &ProcessResult{}, nil
		}
		return f.lpstat, nil
	case "lp":
		if f.lpErr != nil {
			return nil, f.lpErr
		}
		if f.lp == nil {
			return &ProcessResult{}, nil
		}
		return f.lp, nil
	}
	return nil, errors.New("unexpected command " + name)
}

func (f *fakeRunner) callsTo(name string) []invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []invocation
	for _, c := range f.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func lpstatOutput(lines string) *ProcessResult {
	return &ProcessResult{Stdout: []byte(lines)}
}

type recordingObserver struct {
	mu   sync.Mutex
	subs []Submission
}

func (r *recordingObserver) ObserveSubmission(_ context.Context, s Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, s)
}
