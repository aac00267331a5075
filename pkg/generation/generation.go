// Package generation produces the model-written reference essays an input
// essay is compared against.
package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dtnitsch/essay-obscurity/pkg/verdict"
)

// ErrGeneration matches every failure reported by a Service.
var ErrGeneration = errors.New("generation service error")

// Service writes an essay of roughly targetWordCount words on thesis.
type Service interface {
	Generate(ctx context.Context, targetWordCount int, thesis string) (string, error)
}

// Error is one failed generation attempt.
type Error struct {
	Sample  int
	Attempt int
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sample %d attempt %d: %v", e.Sample, e.Attempt, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrGeneration, e.Err} }

// Options controls how many references are requested and how failures are
// retried.
type Options struct {
	Samples int
	Workers int
	// Timeout bounds each Generate call. Zero means no per-call timeout.
	Timeout time.Duration
	Retries int
	// Backoff is multiplied by the attempt number before each retry.
	Backoff time.Duration
}

// Sample is one successfully generated reference.
type Sample struct {
	Index int
	Text  string
}

// Result holds the references that survived and the final error of each
// sample that did not. Samples are ordered by index.
type Result struct {
	Samples  []Sample
	Failures []error
}

// Sampler requests references from a Service on a bounded worker pool.
type Sampler struct {
	service Service
	opts    Options
	logger  *slog.Logger
}

// NewSampler returns a Sampler. Samples and Workers below one are raised to one.
func NewSampler(service Service, opts Options, logger *slog.Logger) *Sampler {
	if opts.Samples < 1 {
		opts.Samples = 1
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Workers > opts.Samples {
		opts.Workers = opts.Samples
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sampler{service: service, opts: opts, logger: logger}
}

// Samples returns the number of references requested per run.
func (s *Sampler) Samples() int { return s.opts.Samples }

type job struct {
	sample int
}

type outcome struct {
	sample int
	text   string
	err    error
}

// Collect generates the references and waits for every worker to finish.
// Failed samples are dropped. When none survives the error wraps
// verdict.ErrInsufficientReferenceData together with each sample's failure.
func (s *Sampler) Collect(ctx context.Context, targetWordCount int, thesis string) (Result, error) {
	var wg sync.WaitGroup
	jobs := make(chan job, s.opts.Samples)
	results := make(chan outcome, s.opts.Samples)

	for w := 1; w <= s.opts.Workers; w++ {
		wg.Add(1)
		go s.worker(ctx, w, targetWordCount, thesis, &wg, jobs, results)
	}
	for i := 1; i <= s.opts.Samples; i++ {
		jobs <- job{sample: i}
	}
	close(jobs)

	wg.Wait()
	close(results)

	var res Result
	for o := range results {
		if o.err != nil {
			res.Failures = append(res.Failures, o.err)
			continue
		}
		res.Samples = append(res.Samples, Sample{Index: o.sample, Text: o.text})
	}
	sort.Slice(res.Samples, func(i, j int) bool { return res.Samples[i].Index < res.Samples[j].Index })

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("reference generation interrupted: %w", err)
	}
	if len(res.Samples) == 0 {
		errs := append([]error{verdict.ErrInsufficientReferenceData}, res.Failures...)
		return res, fmt.Errorf("all %d reference generations failed: %w", s.opts.Samples, errors.Join(errs...))
	}
	return res, nil
}

func (s *Sampler) worker(ctx context.Context, id, targetWordCount int, thesis string, wg *sync.WaitGroup, jobs <-chan job, results chan<- outcome) {
	defer wg.Done()
	for j := range jobs {
		text, err := s.generate(ctx, j.sample, targetWordCount, thesis)
		if err != nil {
			s.logger.Warn("reference generation failed", "worker", id, "sample", j.sample, "error", err)
		} else {
			s.logger.Debug("reference generated", "worker", id, "sample", j.sample, "chars", len(text))
		}
		results <- outcome{sample: j.sample, text: text, err: err}
	}
}

func (s *Sampler) generate(ctx context.Context, sample, targetWordCount int, thesis string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.Retries+1; attempt++ {
		if attempt > 1 {
			s.logger.Info("retrying reference generation", "sample", sample, "attempt", attempt, "error", lastErr)
			if err := sleep(ctx, s.opts.Backoff*time.Duration(attempt-1)); err != nil {
				return "", &Error{Sample: sample, Attempt: attempt, Err: err}
			}
		}

		text, err := s.call(ctx, targetWordCount, thesis)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty essay returned")
		}
		if err == nil {
			return text, nil
		}
		lastErr = &Error{Sample: sample, Attempt: attempt, Err: err}
		if ctx.Err() != nil || permanent(err) {
			break
		}
	}
	return "", lastErr
}

func (s *Sampler) call(ctx context.Context, targetWordCount int, thesis string) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.service.Generate(ctx, targetWordCount, thesis)
}

// permanent reports whether err says retrying cannot help, as a 4xx answer
// from the completion endpoint does.
func permanent(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && !t.Temporary()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
