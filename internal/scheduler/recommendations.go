package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/tabby/internal/recommendations"
)

// Refresher fills the recommendations collection from the catalog.
type Refresher interface {
	Refresh(ctx context.Context) (*recommendations.RefreshResult, error)
}

type Config struct {
	Enabled  bool
	Schedule string
	// Timeout bounds a single refresh. Default: 10m
	Timeout time.Duration
}

// LastRun describes the most recent refresh.
type LastRun struct {
	At     time.Time                      `json:"at"`
	Result *recommendations.RefreshResult `json:"result,omitempty"`
	Error  string                         `json:"error,omitempty"`
}

// RecommendationsScheduler refreshes recommendations periodically.
type RecommendationsScheduler struct {
	refresher Refresher
	config    Config

	cron         *cron.Cron
	entryID      cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	isRefreshing bool
	lastRun      *LastRun
	cancelFunc   context.CancelFunc
}

func NewRecommendationsScheduler(refresher Refresher, cfg Config) *RecommendationsScheduler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &RecommendationsScheduler{
		refresher: refresher,
		config:    cfg,
		cron:      cron.New(cron.WithParser(parser)),
	}
}

// Start schedules the refresh job if refreshing is enabled. The scheduler
// stops by itself when ctx is cancelled.
func (s *RecommendationsScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Recommendations scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, s.runRefresh)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.config.Schedule, time.Now())
	log.Printf("Recommendations scheduler: started with schedule '%s' (%s). Next run: %v",
		s.config.Schedule, CronDescription(s.config.Schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		// Stop cancels cancelCtx itself; only the caller's ctx ending stops us here
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	return nil
}

// Stop waits for a running refresh to complete and removes the job.
func (s *RecommendationsScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// a running refresh takes the lock when it finishes
	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)

	if cancel != nil {
		cancel()
	}
	log.Printf("Recommendations scheduler: stopped")
}

// Reschedule swaps the schedule and restarts the scheduler with it.
func (s *RecommendationsScheduler) Reschedule(ctx context.Context, schedule string) error {
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	s.Stop()

	s.mu.Lock()
	s.config.Schedule = schedule
	s.mu.Unlock()

	return s.Start(ctx)
}

// RunNow triggers an immediate refresh in the background.
func (s *RecommendationsScheduler) RunNow() {
	go s.runRefresh()
}

func (s *RecommendationsScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

func (s *RecommendationsScheduler) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRefreshing
}

// LastRun returns the outcome of the latest refresh, or nil before the first.
func (s *RecommendationsScheduler) LastRun() *LastRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastRun == nil {
		return nil
	}
	run := *s.lastRun
	return &run
}

// GetNextRunTime returns when the next refresh will occur.
func (s *RecommendationsScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *RecommendationsScheduler) runRefresh() {
	s.mu.Lock()
	if s.isRefreshing {
		s.mu.Unlock()
		log.Printf("Recommendations refresh: skipped (already refreshing)")
		return
	}
	s.isRefreshing = true
	timeout := s.config.Timeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startTime := time.Now()
	result, err := s.refresher.Refresh(ctx)

	run := &LastRun{At: startTime, Result: result}
	if err != nil {
		run.Error = err.Error()
		log.Printf("Recommendations refresh: failed: %v", err)
	} else {
		log.Printf("Recommendations refresh: %d added in %v", result.Added, time.Since(startTime).Round(time.Millisecond))
	}

	s.mu.Lock()
	s.isRefreshing = false
	s.lastRun = run
	s.mu.Unlock()
}
