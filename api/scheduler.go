/*
scheduler.go - Due-hours reminder scheduler

PURPOSE:
  Periodically looks for timesheet weeks that have ended but still hold
  open (in_progress, saved, rejected) entries, and sends the owner one
  warning notification per week.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - "Today" is taken in the configured default timezone
  - Weeks already reminded are skipped (reminder_runs table)
  - Failures are logged; the next tick tries again

CONFIGURATION:
  - CheckInterval: How often to check (default: 24 hours)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewReminderScheduler(handler.Service, time.UTC)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - timesheet/reminder.go: Grouping and notification logic
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/timesheet-engine/timesheet"
)

// ReminderScheduler sends due-hours reminders on a ticker.
type ReminderScheduler struct {
	Service       *timesheet.Service
	Location      *time.Location
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// guards lastRun/lastResult; mu is held across Stop's Wait
	statsMu    sync.Mutex
	lastRun    time.Time
	lastResult timesheet.ReminderResult
}

// NewReminderScheduler creates a new scheduler.
func NewReminderScheduler(svc *timesheet.Service, loc *time.Location) *ReminderScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderScheduler{
		Service:       svc,
		Location:      loc,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (rs *ReminderScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan bool)
	rs.wg.Add(1)

	go rs.run(rs.ticker, rs.stop)

	log.Printf("[Scheduler] Started with check interval: %v", rs.CheckInterval)
}

// Stop stops the scheduler.
func (rs *ReminderScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		log.Println("[Scheduler] Stopped")
	}
}

func (rs *ReminderScheduler) run(ticker *time.Ticker, stop <-chan bool) {
	defer rs.wg.Done()

	// Run immediately on start
	rs.checkAndRemind()

	for {
		select {
		case <-ticker.C:
			rs.checkAndRemind()
		case <-stop:
			return
		}
	}
}

func (rs *ReminderScheduler) checkAndRemind() {
	res, err := rs.RunNow(context.Background())
	if err != nil {
		log.Printf("[Scheduler] Error sending reminders: %v", err)
		return
	}
	if res.Sent > 0 || res.Skipped > 0 {
		log.Printf("[Scheduler] Completed: %d weeks checked, %d reminded, %d skipped (already done)",
			res.Checked, res.Sent, res.Skipped)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (rs *ReminderScheduler) RunNow(ctx context.Context) (timesheet.ReminderResult, error) {
	res, err := rs.Service.RunReminders(ctx, rs.Location)
	if err != nil {
		return res, err
	}
	rs.statsMu.Lock()
	rs.lastRun = time.Now()
	rs.lastResult = res
	rs.statsMu.Unlock()
	return res, nil
}

// LastRun returns when the last successful check finished and what it did.
func (rs *ReminderScheduler) LastRun() (time.Time, timesheet.ReminderResult) {
	rs.statsMu.Lock()
	defer rs.statsMu.Unlock()
	return rs.lastRun, rs.lastResult
}
