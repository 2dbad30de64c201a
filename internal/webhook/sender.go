package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orrn/labelserver/internal/core"
)

type WebhookEvent string

const (
	EventLabelSubmitted WebhookEvent = "label_submitted"
	EventLabelFailed    WebhookEvent = "label_failed"
)

type WebhookPayload struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	Signature string      `json:"signature,omitempty"`
}

type LabelEventData struct {
	JobID        string `json:"job_id,omitempty"`
	Printer      string `json:"printer,omitempty"`
	LabelSize    string `json:"label_size,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type WebhookConfig struct {
	URLs        []string
	Secret      string
	RetryCount  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	WorkerCount int
	QueueSize   int
}

type webhookTask struct {
	url     string
	payload *WebhookPayload
	attempt int
}

// statusError is returned for a non-2xx/3xx response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("http error: %d", e.code)
}

// WebhookSender delivers label events to the configured URLs from a small
// worker pool. Events are dropped when the queue is full.
type WebhookSender struct {
	urls        []string
	secret      string
	httpClient  *http.Client
	retryCount  int
	retryDelay  time.Duration
	workerCount int
	queue       chan *webhookTask
	stopCh      chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	logger      *zap.Logger
}

func NewWebhookSender(config WebhookConfig, logger *zap.Logger) *WebhookSender {
	if config.RetryCount <= 0 {
		config.RetryCount = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookSender{
		urls:   config.URLs,
		secret: config.Secret,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retryCount:  config.RetryCount,
		retryDelay:  config.RetryDelay,
		workerCount: config.WorkerCount,
		queue:       make(chan *webhookTask, config.QueueSize),
		stopCh:      make(chan struct{}),
		logger:      logger.Named("webhook"),
	}
}

func (s *WebhookSender) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

func (s *WebhookSender) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// ObserveSubmission queues a label_submitted or label_failed event.
func (s *WebhookSender) ObserveSubmission(_ context.Context, sub core.Submission) {
	data := &LabelEventData{
		JobID:     sub.JobID,
		Printer:   sub.Printer,
		LabelSize: sub.LabelSize,
	}
	event := EventLabelSubmitted
	if !sub.Succeeded() {
		event = EventLabelFailed
		data.ErrorKind = core.KindOf(sub.Err).String()
		data.ErrorMessage = sub.Err.Error()
	}
	s.enqueue(event, sub.At, data)
}

func (s *WebhookSender) enqueue(event WebhookEvent, at time.Time, data interface{}) {
	if at.IsZero() {
		at = time.Now()
	}
	for _, url := range s.urls {
		task := &webhookTask{
			url: url,
			payload: &WebhookPayload{
				Event:     string(event),
				Timestamp: at,
				Data:      data,
			},
		}

		select {
		case s.queue <- task:
		default:
			s.logger.Warn("queue full, dropping webhook",
				zap.String("url", url),
				zap.String("event", string(event)))
		}
	}
}

func (s *WebhookSender) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			// Flush whatever is already queued before exiting.
			for {
				select {
				case task := <-s.queue:
					s.deliver(id, task)
				default:
					return
				}
			}
		case task := <-s.queue:
			s.deliver(id, task)
		}
	}
}

func (s *WebhookSender) deliver(worker int, task *webhookTask) {
	if err := s.sendWithRetry(task); err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.Int("worker", worker),
			zap.String("url", task.url),
			zap.String("event", task.payload.Event),
			zap.Int("attempts", task.attempt),
			zap.Error(err))
	}
}

func (s *WebhookSender) sendWithRetry(task *webhookTask) error {
	var lastErr error
	for task.attempt < s.retryCount {
		task.attempt++

		err := s.sendRequest(task.url, task.payload)
		if err == nil {
			return nil
		}

		lastErr = err

		if isClientError(err) {
			return err
		}

		if task.attempt < s.retryCount {
			backoff := s.retryDelay * time.Duration(1<<(task.attempt-1))
			s.logger.Debug("retrying webhook",
				zap.String("url", task.url),
				zap.Int("attempt", task.attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-s.stopCh:
				return fmt.Errorf("shutdown requested")
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (s *WebhookSender) sendRequest(url string, payload *WebhookPayload) error {
	if s.secret != "" {
		dataBytes, err := json.Marshal(payload.Data)
		if err != nil {
			return fmt.Errorf("marshal data: %w", err)
		}
		payload.Signature = SignPayload(dataBytes, s.secret)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", payload.Event)
	if payload.Signature != "" {
		req.Header.Set("X-Webhook-Signature", payload.Signature)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &statusError{code: resp.StatusCode}
	}

	return nil
}

// SignPayload returns the hex HMAC-SHA256 of payload keyed by secret.
func SignPayload(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

func isClientError(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code >= 400 && se.code < 500
}
