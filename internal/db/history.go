package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/core"
)

const defaultRetentionInterval = 24 * time.Hour

// History keeps a record of every label submission outcome.
type History struct {
	db     *sql.DB
	logger *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewHistory(database *sql.DB, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{
		db:     database,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// ObserveSubmission stores s. Write failures are logged, never returned.
func (h *History) ObserveSubmission(ctx context.Context, s core.Submission) {
	rec := &PrintRecord{
		JobID:     s.JobID,
		Printer:   s.Printer,
		LabelSize: s.LabelSize,
		Content:   s.Text,
		Success:   s.Succeeded(),
		CreatedAt: s.At,
	}
	if s.Err != nil {
		rec.ErrorKind = core.KindOf(s.Err).String()
		rec.ErrorMessage = s.Err.Error()
		var pe *core.PrintError
		if errors.As(s.Err, &pe) {
			rec.ErrorMessage = pe.Message
		}
	}

	if err := h.Insert(ctx, rec); err != nil {
		h.logger.Warn("failed to record print history", zap.Error(err))
	}
}

func (h *History) Insert(ctx context.Context, r *PrintRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	result, err := h.db.ExecContext(ctx, InsertPrintRecord,
		r.JobID, r.Printer, r.LabelSize, r.Content, r.Success,
		r.ErrorKind, r.ErrorMessage, r.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert print record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get print record id: %w", err)
	}
	r.ID = id
	return nil
}

// Recent returns up to limit records, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]*PrintRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.QueryContext(ctx, ListRecentPrintRecords, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list print history: %w", err)
	}
	defer rows.Close()

	var records []*PrintRecord
	for rows.Next() {
		r := &PrintRecord{}
		if err := rows.Scan(
			&r.ID, &r.JobID, &r.Printer, &r.LabelSize, &r.Content, &r.Success,
			&r.ErrorKind, &r.ErrorMessage, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan print record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Prune deletes records created before cutoff and returns how many went.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := h.db.ExecContext(ctx, DeletePrintRecordsBefore, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune print history: %w", err)
	}
	return result.RowsAffected()
}

// StartRetention prunes records older than days once now and then daily.
func (h *History) StartRetention(days int) {
	if days <= 0 {
		return
	}
	h.wg.Add(1)
	go h.runRetention(days, defaultRetentionInterval)
}

func (h *History) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}

func (h *History) runRetention(days int, interval time.Duration) {
	defer h.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		h.pruneOlderThan(days)
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (h *History) pruneOlderThan(days int) {
	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := h.Prune(context.Background(), cutoff)
	if err != nil {
		h.logger.Warn("print history retention failed", zap.Error(err))
		return
	}
	if n > 0 {
		h.logger.Info("pruned print history", zap.Int64("removed", n), zap.Int("days", days))
	}
}
