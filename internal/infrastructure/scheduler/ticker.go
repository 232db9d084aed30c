package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
)

// TickerScheduler drives governor cycles at a fixed interval. Cycles are
// infrequent (hours apart), so a plain ticker is deliberate: there is no
// cron grammar to honor, only "run one cycle every N hours".
type TickerScheduler struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler firing every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = 4 * time.Hour
	}
	return &TickerScheduler{interval: interval}
}

// Start runs the job immediately, then on every tick, until the context
// is cancelled or Stop is called.
func (s *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	// The goroutine selects on its own copy of the channel; Stop may nil
	// the field out concurrently.
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine. Safe to call from any goroutine, and
// more than once.
func (s *TickerScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
