package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTickerRunsJobImmediately(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	ran := make(chan struct{}, 1)

	if err := s.Start(context.Background(), func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestTickerStopBeforeStart(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop on an idle scheduler: %v", err)
	}
}

func TestTickerConcurrentStop(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Millisecond)
	started := make(chan struct{})
	var once sync.Once

	if err := s.Start(context.Background(), func(time.Time) {
		once.Do(func() { close(started) })
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Stop(context.Background()); err != nil {
				t.Errorf("Stop: %v", err)
			}
		}()
	}
	wg.Wait()

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop after stop: %v", err)
	}
}

func TestTickerRestartsAfterStop(t *testing.T) {
	t.Parallel()

	s := NewTickerScheduler(time.Hour)
	ctx := context.Background()
	ran := make(chan struct{}, 2)

	if err := s.Start(ctx, func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-ran
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if err := s.Start(ctx, func(time.Time) { ran <- struct{}{} }); err != nil {
		t.Fatalf("restart: %v", err)
	}
	defer s.Stop(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run after restart")
	}
}
