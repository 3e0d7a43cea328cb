package client

import (
	"context"
	"errors"
	"log"
	"sync"

	"dive-server/src/store"
)

// MaxQueue is how many undelivered scores are kept.
const MaxQueue = 20

// ErrFlushing is returned by Flush while another flush is in progress.
var ErrFlushing = errors.New("flush already in progress")

// Queue is a bounded FIFO of scores waiting for delivery. When full, the
// oldest entries are dropped. Flush delivers in insertion order and stops at
// the first failure, keeping that score and everything after it.
type Queue struct {
	mu      sync.Mutex
	items   []store.Submission
	sending bool

	storage   Storage
	submitter Submitter
	max       int
}

// NewQueue loads any saved scores from storage.
func NewQueue(storage Storage, submitter Submitter) (*Queue, error) {
	items, err := storage.Load()
	if err != nil {
		return nil, err
	}
	q := &Queue{storage: storage, submitter: submitter, max: MaxQueue}
	q.items = trim(items, q.max)
	return q, nil
}

func trim(items []store.Submission, max int) []store.Submission {
	if len(items) > max {
		return append([]store.Submission(nil), items[len(items)-max:]...)
	}
	return items
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Items returns a copy of the queued scores, oldest first.
func (q *Queue) Items() []store.Submission {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]store.Submission(nil), q.items...)
}

func (q *Queue) saveLocked() {
	if err := q.storage.Save(q.items); err != nil {
		log.Printf("[WARN] Could not save score queue: %v", err)
	}
}

// Enqueue appends sub, persists the queue and flushes it. A nil error means
// sub was delivered; otherwise it is pending in the queue.
func (q *Queue) Enqueue(ctx context.Context, sub store.Submission) error {
	q.mu.Lock()
	q.items = trim(append(q.items, sub), q.max)
	q.saveLocked()
	q.mu.Unlock()

	_, err := q.Flush(ctx)
	return err
}

// Flush delivers queued scores in order and returns how many were sent.
func (q *Queue) Flush(ctx context.Context) (int, error) {
	q.mu.Lock()
	if q.sending {
		q.mu.Unlock()
		return 0, ErrFlushing
	}
	q.sending = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.sending = false
		q.mu.Unlock()
	}()

	sent := 0
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			q.mu.Unlock()
			return sent, nil
		}
		next := q.items[0]
		q.mu.Unlock()

		sctx, cancel := context.WithTimeout(ctx, SubmitTimeout)
		_, err := q.submitter.Submit(sctx, next)
		cancel()
		if err != nil {
			return sent, err
		}

		q.mu.Lock()
		// An Enqueue during the send may have trimmed next away.
		if len(q.items) > 0 && q.items[0] == next {
			q.items = q.items[1:]
		}
		q.saveLocked()
		q.mu.Unlock()
		sent++
	}
}
