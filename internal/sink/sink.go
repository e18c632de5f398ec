// Package sink delivers encoded submissions to the spreadsheet endpoints over HTTP.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/storecheck/internal/contract"
	"github.com/huangsam/storecheck/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ContentType is the form content type the endpoints expect.
const ContentType = "application/x-www-form-urlencoded;charset=UTF-8"

// Sink errors.
var (
	ErrNoEndpoints = errors.New("no submission endpoints configured")
	ErrRejected    = errors.New("endpoint rejected submission")
)

// Options configures an HTTPSink. Zero values fall back to the schema defaults.
type Options struct {
	Endpoints []string
	Timeout   time.Duration
	Opaque    bool // any completed round trip counts as success
	Client    *http.Client
	Queue     *Queue
	Logger    *zap.Logger
}

// HTTPSink posts a payload to every endpoint concurrently.
type HTTPSink struct {
	endpoints []string
	timeout   time.Duration
	opaque    bool
	client    *http.Client
	queue     *Queue
	logger    *zap.Logger
}

var _ contract.Sink = &HTTPSink{}

// New creates an HTTPSink.
func New(opts Options) *HTTPSink {
	s := &HTTPSink{
		endpoints: slices.Clone(opts.Endpoints),
		timeout:   opts.Timeout,
		opaque:    opts.Opaque,
		client:    opts.Client,
		queue:     opts.Queue,
		logger:    opts.Logger,
	}
	if s.timeout <= 0 {
		s.timeout = schema.DefaultSubmitTimeout
	}
	if s.client == nil {
		s.client = http.DefaultClient
	}
	if s.queue == nil {
		s.queue = NewQueue(schema.DefaultMinRequestGap)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Endpoints returns the configured endpoint URLs.
func (s *HTTPSink) Endpoints() []string {
	return slices.Clone(s.endpoints)
}

// Submit posts the payload to all endpoints. It fails if any endpoint fails and reports
// every failure, not just the first.
func (s *HTTPSink) Submit(ctx context.Context, payload schema.SubmissionPayload) error {
	if len(s.endpoints) == 0 {
		return ErrNoEndpoints
	}
	body := payload.Encode()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, endpoint := range s.endpoints {
		g.Go(func() error {
			if err := s.post(ctx, endpoint, body); err != nil {
				s.logger.Warn("submission failed", zap.String("endpoint", endpoint), zap.Error(err))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *HTTPSink) post(ctx context.Context, endpoint, body string) error {
	if err := s.queue.Wait(ctx); err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", ContentType)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	s.logger.Debug("submission sent",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if s.opaque {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("POST %s: %w: %s", endpoint, ErrRejected, resp.Status)
	}
	return nil
}
