package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulog/plagiarism-check/pkg/obs"
)

const (
	// DefaultPollInterval is the fixed delay between status checks.
	DefaultPollInterval = 3 * time.Second
	// DefaultFallbackDelay emulates an upstream round trip for fallback
	// scores so callers see the same asynchronous shape either way.
	DefaultFallbackDelay = 1500 * time.Millisecond
)

// Mode selects between the scoring API and local simulation.
type Mode string

const (
	ModeUpstream   Mode = "upstream"
	ModeSimulation Mode = "simulation"
)

// Upstream is the scoring API as used by the checker. *Client implements
// it.
type Upstream interface {
	Login(ctx context.Context) (string, error)
	Submit(ctx context.Context, token, scanID, text string) error
	Status(ctx context.Context, token, scanID string) (StatusResponse, error)
	Results(ctx context.Context, token, scanID string) (ResultsResponse, error)
}

// Checker runs plagiarism checks. Every check owns its own session, so a
// Checker may run any number of checks concurrently.
type Checker struct {
	upstream      Upstream
	mode          Mode
	policy        Policy
	pollInterval  time.Duration
	maxPolls      int
	fallbackDelay time.Duration
	log           *slog.Logger

	after func(time.Duration) <-chan time.Time
	now   func() time.Time
}

type Option func(*Checker)

func WithMode(mode Mode) Option {
	return func(c *Checker) { c.mode = mode }
}

func WithPolicy(policy Policy) Option {
	return func(c *Checker) { c.policy = policy }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Checker) { c.pollInterval = d }
}

// WithMaxPolls caps the number of status checks per scan. Zero keeps
// polling until the scan reaches a terminal status or the context ends.
func WithMaxPolls(n int) Option {
	return func(c *Checker) { c.maxPolls = n }
}

func WithFallbackDelay(d time.Duration) Option {
	return func(c *Checker) { c.fallbackDelay = d }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

// NewChecker builds a checker. A nil upstream forces simulation mode.
func NewChecker(upstream Upstream, opts ...Option) *Checker {
	c := &Checker{
		upstream:      upstream,
		mode:          ModeUpstream,
		policy:        DefaultPolicy(),
		pollInterval:  DefaultPollInterval,
		fallbackDelay: DefaultFallbackDelay,
		log:           slog.Default(),
		after:         time.After,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.upstream == nil {
		c.mode = ModeSimulation
	}
	return c
}

// Pending is the future of one check.
type Pending struct {
	done   chan struct{}
	result Result
	err    error
}

// Done is closed once the check has a terminal outcome.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the check ends or ctx is done. Giving up on ctx does
// not stop the check; cancel the context passed to Start for that.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.result, p.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Start launches a check of text and returns immediately.
func (c *Checker) Start(ctx context.Context, text string) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.result, p.err = c.safeRun(ctx, text)

		outcome := "completed"
		source := string(p.result.Source)
		if p.err != nil {
			outcome, source = "error", "none"
		}
		obs.ObserveCheck(source, outcome)
	}()
	return p
}

// Check runs a check and waits for its outcome.
func (c *Checker) Check(ctx context.Context, text string) (Result, error) {
	return c.Start(ctx, text).Wait(ctx)
}

// CheckPlagiarism runs a check and reports its outcome to listener.
// It does not block. A nil listener discards the outcome.
func (c *Checker) CheckPlagiarism(ctx context.Context, text string, listener Listener) {
	if listener == nil {
		c.log.Warn("CheckPlagiarism called without a listener, outcome will be dropped")
		listener = ListenerFuncs{}
	}
	p := c.Start(ctx, text)
	go func() {
		<-p.Done()
		c.deliver(listener, p)
	}()
}

// deliver hands the outcome of p to listener. A panicking listener is
// logged and does not take the process down.
func (c *Checker) deliver(listener Listener, p *Pending) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Plagiarism listener panicked", "panic", r)
		}
	}()
	if p.err != nil {
		listener.OnError(p.err.Error())
		return
	}
	listener.OnCheckCompleted(p.result.Percentage, p.result.Allowed)
}

func (c *Checker) safeRun(ctx context.Context, text string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Plagiarism check panicked", "panic", r)
			res, err = Result{}, fmt.Errorf("plagiarism check aborted: %v", r)
		}
	}()
	return c.run(ctx, text)
}

func (c *Checker) run(ctx context.Context, text string) (Result, error) {
	if c.mode == ModeSimulation {
		c.log.Debug("Using simulation mode for plagiarism check", "length", len(text))
		return c.fallback(ctx, text)
	}

	s := newSession(c.now())
	defer s.close()

	s.advance(PhaseAuthenticating)
	token, err := c.upstream.Login(ctx)
	if err != nil {
		s.advance(PhaseFailed)
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		c.log.Warn("Authentication failed, using fallback score",
			"error", wrapPhase(ErrAuthenticationUnavailable, err))
		return c.fallback(ctx, text)
	}
	s.token = token
	s.advance(PhaseAuthenticated)

	s.advance(PhaseSubmitting)
	s.mintScanID()
	log := c.log.With("scan_id", s.ScanID)
	if err := c.upstream.Submit(ctx, s.token, s.ScanID, text); err != nil {
		s.advance(PhaseFailed)
		log.Error("Submission failed", "error", err)
		return Result{}, wrapPhase(ErrSubmissionFailed, err)
	}
	s.advance(PhaseSubmitted)
	log.Debug("Content submitted")

	if err := c.poll(ctx, s, log); err != nil {
		s.advance(PhaseFailed)
		log.Error("Polling failed", "error", err, "polls", s.Polls)
		return Result{}, err
	}

	resp, err := c.upstream.Results(ctx, s.token, s.ScanID)
	if err != nil {
		s.advance(PhaseFailed)
		log.Error("Getting results failed", "error", err)
		return Result{}, wrapPhase(ErrResultRetrievalFailed, err)
	}

	score, ok := resp.Score()
	source := SourceUpstream
	if !ok {
		score, source = placeholderScore(), SourcePlaceholder
		log.Warn("Result has no plagiarism score, using placeholder", "percentage", score)
	}
	res := c.policy.result(score, source, s.ScanID)
	log.Info("Plagiarism check completed",
		"percentage", res.Percentage, "allowed", res.Allowed, "source", res.Source)
	return res, nil
}

// poll checks the scan status every pollInterval until it is terminal.
// It returns nil once the scan has finished.
func (c *Checker) poll(ctx context.Context, s *Session, log *slog.Logger) error {
	for {
		s.advance(PhasePolling)
		s.Polls++
		obs.IncPoll()

		st, err := c.upstream.Status(ctx, s.token, s.ScanID)
		if err != nil {
			return wrapPhase(ErrPollingFailed, err)
		}
		s.Status = st.Status
		log.Debug("Scan status", "status", st.Status, "poll", s.Polls)

		switch st.Status {
		case StatusFinished:
			s.advance(PhaseFinished)
			return nil
		case StatusError:
			msg := st.Error
			if msg == "" {
				msg = "Unknown scan error"
			}
			return wrapPhase(ErrPollingFailed, fmt.Errorf("scan error: %s", msg))
		}

		if c.maxPolls > 0 && s.Polls >= c.maxPolls {
			return wrapPhase(ErrPollingFailed,
				fmt.Errorf("scan still %s after %d status checks", st.Status, s.Polls))
		}

		select {
		case <-ctx.Done():
			return wrapPhase(ErrPollingFailed, ctx.Err())
		case <-c.after(c.pollInterval):
		}
	}
}

// fallback scores text locally after the simulated round trip delay.
func (c *Checker) fallback(ctx context.Context, text string) (Result, error) {
	score := FallbackScore(text)
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-c.after(c.fallbackDelay):
	}
	res := c.policy.result(score, SourceFallback, "")
	c.log.Info("Fallback plagiarism score", "percentage", res.Percentage, "allowed", res.Allowed)
	return res, nil
}

// IsTerminalError reports whether err ended a check that the author may
// override by publishing anyway. Cancellation and recovered panics are
// not terminal outcomes of the upstream flow.
func IsTerminalError(err error) bool {
	return errors.Is(err, ErrSubmissionFailed) ||
		errors.Is(err, ErrPollingFailed) ||
		errors.Is(err, ErrResultRetrievalFailed)
}
