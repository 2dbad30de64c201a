package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const printerRecordPrefix = "printer "

// DirectoryConfig names the status command and the discovery policy.
type DirectoryConfig struct {
	LPStatCommand string
	// Match is the case-insensitive substring DiscoverDefault looks for.
	Match string
}

// Directory lists the printers the gateway knows about.
type Directory struct {
	runner ProcessRunner
	pool   *Pool
	config DirectoryConfig
	logger *zap.Logger
}

func NewDirectory(runner ProcessRunner, pool *Pool, cfg DirectoryConfig, logger *zap.Logger) *Directory {
	if cfg.LPStatCommand == "" {
		cfg.LPStatCommand = "lpstat"
	}
	if cfg.Match == "" {
		cfg.Match = "dymo"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		runner: runner,
		pool:   pool,
		config: cfg,
		logger: logger,
	}
}

// ListPrinters returns printer names in the order the gateway reports them.
func (d *Directory) ListPrinters(ctx context.Context) ([]string, error) {
	var result *ProcessResult
	err := d.pool.Do(ctx, func() error {
		var runErr error
		result, runErr = d.runner.Run(ctx, d.config.LPStatCommand, []string{"-p"}, nil)
		return runErr
	})
	if err != nil {
		d.logger.Warn("printer listing failed", zap.Error(err))
		return nil, systemError("Failed to run %s: %v", d.config.LPStatCommand, err)
	}

	if !result.Success() {
		d.logger.Warn("printer listing rejected",
			zap.Int("exit_code", result.ExitCode),
			zap.ByteString("stderr", result.Stderr))
		return nil, cupsError(string(result.Stderr))
	}

	return ParsePrinters(result.Stdout), nil
}

// ParsePrinters extracts printer names from `lpstat -p` output. Only lines
// beginning with "printer " are records; the name is the second field.
func ParsePrinters(output []byte) []string {
	printers := []string{}
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.HasPrefix(line, printerRecordPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		printers = append(printers, fields[1])
	}
	return printers
}

// DiscoverDefault picks the first listed printer whose name contains the
// configured match, ignoring case.
func (d *Directory) DiscoverDefault(ctx context.Context) (string, error) {
	printers, err := d.ListPrinters(ctx)
	if err != nil {
		return "", err
	}

	match := strings.ToLower(d.config.Match)
	for _, p := range printers {
		if strings.Contains(strings.ToLower(p), match) {
			return p, nil
		}
	}

	if len(printers) == 0 {
		return "", printerNotFound("No printers found")
	}

	return "", printerNotFound(fmt.Sprintf("No %s printer found. Available printers: %s",
		displayName(d.config.Match), strings.Join(printers, ", ")))
}

func displayName(match string) string {
	if match == "" {
		return match
	}
	return strings.ToUpper(match[:1]) + match[1:]
}
