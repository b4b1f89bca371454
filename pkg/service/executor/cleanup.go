package executor

import (
	"context"
	"sync"
	"time"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

type pendingCleanup struct {
	timer   *time.Timer
	fn      func()
	onStale func()
}

// CleanupScheduler runs deferred artifact cleanups. Every execution takes a
// new session token; a cleanup only runs while its token is still the latest,
// so a late timer never deletes the artifact of a newer run.
type CleanupScheduler struct {
	mu      sync.Mutex
	latest  uint64
	pending map[uint64]*pendingCleanup
	wg      sync.WaitGroup

	logger *zap.Logger
}

func NewCleanupScheduler(logger *zap.Logger) *CleanupScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupScheduler{
		pending: make(map[uint64]*pendingCleanup),
		logger:  logger.Named("cleanup"),
	}
}

// NextSession starts a new execution session and returns its token.
func (s *CleanupScheduler) NextSession() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	return s.latest
}

func (s *CleanupScheduler) Latest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest
}

// Schedule runs fn after delay unless a newer session has started by then,
// in which case onStale runs instead when it is not nil. A zero delay fires
// right away.
func (s *CleanupScheduler) Schedule(token uint64, delay time.Duration, fn, onStale func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.pending[token]; ok && old.timer.Stop() {
		s.wg.Done()
	}

	s.logger.Debug(
		"cleanup scheduled",
		zap.Uint64("session", token),
		zap.String("delay", units.HumanDuration(delay)),
	)

	s.wg.Add(1)
	p := &pendingCleanup{fn: fn, onStale: onStale}
	p.timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.fire(token, p)
	})
	s.pending[token] = p
}

func (s *CleanupScheduler) fire(token uint64, p *pendingCleanup) {
	s.mu.Lock()
	if s.pending[token] == p {
		delete(s.pending, token)
	}
	stale := token != s.latest
	latest := s.latest
	s.mu.Unlock()

	if stale {
		s.logger.Debug(
			"stale cleanup skipped",
			zap.Uint64("session", token),
			zap.Uint64("latest", latest),
		)
		if p.onStale != nil {
			p.onStale()
		}
		return
	}
	p.fn()
}

// Pending reports the number of cleanups that have not fired yet.
func (s *CleanupScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Flush fires every pending cleanup now.
func (s *CleanupScheduler) Flush() {
	s.mu.Lock()
	var due []uint64
	stopped := make(map[uint64]*pendingCleanup)
	for token, p := range s.pending {
		if p.timer.Stop() {
			stopped[token] = p
			due = append(due, token)
		}
	}
	s.mu.Unlock()

	for _, token := range due {
		func() {
			defer s.wg.Done()
			s.fire(token, stopped[token])
		}()
	}
}

// Stop cancels every pending cleanup without running it.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, p := range s.pending {
		if p.timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, token)
	}
}

// Wait blocks until every scheduled cleanup has fired. If ctx ends first the
// remaining cleanups are flushed.
func (s *CleanupScheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.Flush()
		<-done
		return ctx.Err()
	}
}
