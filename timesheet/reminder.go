package timesheet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/warp/timesheet-engine/generic"
)

// Reminders warns users about open entries in weeks that already ended.
// Each user/window pair is reminded once.
type Reminders struct {
	entries  EntryStore
	log      ReminderLog
	notifier Notifier
	now      func() time.Time
}

func NewReminders(entries EntryStore, log ReminderLog, notifier Notifier) *Reminders {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Reminders{entries: entries, log: log, notifier: notifier, now: func() time.Time { return time.Now().UTC() }}
}

type ReminderResult struct {
	Checked int // distinct user/window pairs with open entries
	Sent    int
	Skipped int // already reminded
}

type reminderKey struct {
	userID string
	window generic.Period
}

// Run reminds every user with open entries whose window ended before today.
func (r *Reminders) Run(ctx context.Context, today generic.TimePoint) (ReminderResult, error) {
	var result ReminderResult
	open, err := r.entries.FindOpenBefore(ctx, today)
	if err != nil {
		return result, generic.Internal("find open timesheets", err)
	}

	seen := make(map[string]reminderKey)
	for _, e := range open {
		k := reminderKey{userID: e.UserID, window: e.Window}
		seen[e.UserID+"|"+e.Window.String()] = k
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		k := seen[id]
		result.Checked++
		done, err := r.log.Reminded(ctx, k.userID, k.window)
		if err != nil {
			return result, generic.Internal("reminder log", err)
		}
		if done {
			result.Skipped++
			continue
		}
		msg := fmt.Sprintf("You have timesheet hours for %s that are not submitted yet.", k.window.Label())
		if err := r.notifier.Notify(ctx, k.userID, msg, LevelWarning); err != nil {
			return result, generic.Internal("notify", err)
		}
		if err := r.log.MarkReminded(ctx, k.userID, k.window, r.now()); err != nil {
			return result, generic.Internal("reminder log", err)
		}
		result.Sent++
	}
	return result, nil
}
