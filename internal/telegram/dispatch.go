package telegram

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// dispatcher fans updates out to one worker per chat: a slow creation
// call never blocks other chats, while one chat's updates keep their
// arrival order. Queues are unbounded so dispatch never blocks the
// polling loop, whatever backlog a single chat builds up. Workers live
// for the process lifetime.
type dispatcher struct {
	mu      sync.Mutex
	queues  map[int64]*chatQueue
	handle  func(tgbotapi.Update)
	wg      sync.WaitGroup
	stopped bool
}

// chatQueue is one chat's FIFO backlog. wake carries at most one pending
// signal; the worker drains the slice on each signal.
type chatQueue struct {
	mu      sync.Mutex
	pending []tgbotapi.Update
	wake    chan struct{}
}

func newDispatcher(handle func(tgbotapi.Update)) *dispatcher {
	return &dispatcher{
		queues: make(map[int64]*chatQueue),
		handle: handle,
	}
}

func (d *dispatcher) dispatch(chatID int64, u tgbotapi.Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	q, ok := d.queues[chatID]
	if !ok {
		q = &chatQueue{wake: make(chan struct{}, 1)}
		d.queues[chatID] = q
		d.wg.Add(1)
		go d.run(q)
	}

	q.mu.Lock()
	q.pending = append(q.pending, u)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run(q *chatQueue) {
	defer d.wg.Done()
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			u := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()

			d.handle(u)
		}
	}
}

// stop drains all workers. dispatch calls after stop are dropped.
func (d *dispatcher) stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, q := range d.queues {
		close(q.wake)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
