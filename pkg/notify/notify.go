// Package notify batches tag-change notifications observed during a run and
// flushes them on a cron schedule. Never called from the hot copy path: it
// exists alongside the scheduler, not inside it.
package notify

import (
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/hemzaz/tugboat/pkg/helper/log"
)

// Change describes tags observed as added or removed for one image during
// a run.
type Change struct {
	Image       string
	RemovedTags []string
	NewTags     []string
}

// Sender delivers a batch of changes. The stub Sender below merely logs;
// a real deployment would plug in email/Slack/etc.
type Sender interface {
	Send(changes []Change)
}

// LogSender is the stub sender: it logs one line per change.
type LogSender struct {
	Logger log.Logger
}

func (s LogSender) Send(changes []Change) {
	for _, c := range changes {
		actionRequested := len(c.NewTags) > 0
		s.Logger.WithFields(map[string]interface{}{
			"image":            c.Image,
			"removed_tags":     c.RemovedTags,
			"new_tags":         c.NewTags,
			"action_requested": actionRequested,
		}).Info("service change notification")
	}
}

// Queue accumulates Changes during a run and flushes them to a Sender on a
// cron schedule. Safe for concurrent use by the executor's task goroutines.
type Queue struct {
	mu      sync.Mutex
	pending []Change
	sender  Sender
	cron    *cron.Cron
}

// NewQueue builds a Queue that flushes sender on the given cron schedule
// (e.g. "@every 1h", the documented default). Call Start to begin the
// scheduled flush and Stop to drain it at shutdown.
func NewQueue(sender Sender, schedule string) (*Queue, error) {
	q := &Queue{sender: sender, cron: cron.New()}
	if _, err := q.cron.AddFunc(schedule, q.Flush); err != nil {
		return nil, err
	}
	return q, nil
}

// Enqueue records one change to be delivered on the next flush.
func (q *Queue) Enqueue(c Change) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, c)
}

// Flush delivers and clears every pending change.
func (q *Queue) Flush() {
	q.mu.Lock()
	changes := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(changes) == 0 {
		return
	}
	q.sender.Send(changes)
}

// Start begins the cron schedule.
func (q *Queue) Start() { q.cron.Start() }

// Stop halts the cron schedule and flushes any remaining changes.
func (q *Queue) Stop() {
	ctx := q.cron.Stop()
	<-ctx.Done()
	q.Flush()
}
