package core

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMedia       = "30252"
	DefaultOrientation = "4"

	// Blank lines printed ahead of the text so it clears the top edge of the
	// label stock.
	labelTopOffset = "\n\n"
)

var requestIDPattern = regexp.MustCompile(`request id is (\S+)`)

// PrinterDiscoverer picks a printer when the request does not name one.
type PrinterDiscoverer interface {
	DiscoverDefault(ctx context.Context) (string, error)
}

type PrintServiceConfig struct {
	LPCommand    string
	DefaultMedia string
	Orientation  string
}

// PrintService validates label requests and submits them through lp.
type PrintService struct {
	runner    ProcessRunner
	pool      *Pool
	discovery PrinterDiscoverer
	config    PrintServiceConfig
	observers []SubmissionObserver
	logger    *zap.Logger
	newJobID  func() string
	now       func() time.Time
}

func NewPrintService(runner ProcessRunner, pool *Pool, discovery PrinterDiscoverer, cfg PrintServiceConfig, logger *zap.Logger) *PrintService {
	if cfg.LPCommand == "" {
		cfg.LPCommand = "lp"
	}
	if cfg.DefaultMedia == "" {
		cfg.DefaultMedia = DefaultMedia
	}
	if cfg.Orientation == "" {
		cfg.Orientation = DefaultOrientation
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintService{
		runner:    runner,
		pool:      pool,
		discovery: discovery,
		config:    cfg,
		logger:    logger,
		newJobID:  func() string { return uuid.New().String() },
		now:       time.Now,
	}
}

// AddObserver registers o to be told about every submission outcome.
func (s *PrintService) AddObserver(o SubmissionObserver) {
	s.observers = append(s.observers, o)
}

// Submit prints req and returns the job id. The id is the one reported by the
// gateway when its output can be parsed, otherwise a locally generated UUID.
// Failures are always *PrintError.
func (s *PrintService) Submit(ctx context.Context, req LabelRequest) (string, error) {
	if strings.TrimSpace(req.Line1) == "" {
		return "", invalidText("First line cannot be empty")
	}

	printer := req.printerOverride()
	if printer == "" {
		var err error
		printer, err = s.discovery.DiscoverDefault(ctx)
		if err != nil {
			s.notify(ctx, Submission{LabelSize: req.labelSize(), Err: err, At: s.now()})
			return "", err
		}
	}

	text := FormatLabel(req.lines())
	labelSize := req.labelSize()
	if labelSize == "" {
		labelSize = s.config.DefaultMedia
	}

	jobID, err := s.submit(ctx, printer, text, labelSize)
	s.notify(ctx, Submission{
		JobID:     jobID,
		Printer:   printer,
		Text:      text,
		LabelSize: labelSize,
		Err:       err,
		At:        s.now(),
	})
	if err != nil {
		s.logger.Warn("label submission failed",
			zap.String("printer", printer),
			zap.String("label_size", labelSize),
			zap.Error(err))
		return "", err
	}

	s.logger.Info("label submitted",
		zap.String("printer", printer),
		zap.String("job_id", jobID),
		zap.String("label_size", labelSize))
	return jobID, nil
}

func (s *PrintService) submit(ctx context.Context, printer, text, labelSize string) (string, error) {
	fallbackID := s.newJobID()
	args := []string{
		"-d", printer,
		"-t", "Label-" + fallbackID,
		"-o", "media=" + labelSize,
		"-o", "fit-to-page",
		"-o", "orientation-requested=" + s.config.Orientation,
	}

	var result *ProcessResult
	err := s.pool.Do(ctx, func() error {
		var runErr error
		result, runErr = s.runner.Run(ctx, s.config.LPCommand, args, []byte(text))
		return runErr
	})
	if err != nil {
		return "", systemError("Failed to run %s: %v", s.config.LPCommand, err)
	}

	if !result.Success() {
		return "", cupsError(string(result.Stderr))
	}

	if id, ok := ParseRequestID(result.Stdout); ok {
		return id, nil
	}
	return fallbackID, nil
}

func (s *PrintService) notify(ctx context.Context, sub Submission) {
	for _, o := range s.observers {
		o.ObserveSubmission(ctx, sub)
	}
}

// FormatLabel joins the non-empty lines with newlines behind the fixed top
// offset. Lines holding only spaces are printed as they are. This string is
// the document handed to lp.
func FormatLabel(lines []string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			continue
		}
		kept = append(kept, l)
	}
	return labelTopOffset + strings.Join(kept, "\n")
}

// ParseRequestID returns the job id from the first line of lp output, e.g.
// "request id is DYMO_LabelWriter-42 (1 file(s))".
func ParseRequestID(stdout []byte) (string, bool) {
	first, _, _ := bytes.Cut(stdout, []byte("\n"))
	m := requestIDPattern.FindSubmatch(first)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
