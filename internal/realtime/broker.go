// Package realtime pushes an owner's full task set to live subscribers every
// time that set changes.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/events"
)

// ErrClosed is returned by Subscribe after Close.
var ErrClosed = errors.New("realtime broker closed")

// Lister reads an owner's current task set.
type Lister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
}

// OnChange receives a complete task set. It is called from the subscriber's
// own goroutine, never concurrently with itself.
type OnChange = func(tasks []*domain.Task)

// Broker fans task change events out to per-owner subscribers. It implements
// events.EventHandler.
type Broker struct {
	lister Lister
	logger *slog.Logger

	seq atomic.Uint64

	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

var _ events.EventHandler = (*Broker)(nil)

// NewBroker creates a broker that reads snapshots through lister.
func NewBroker(lister Lister, logger *slog.Logger) *Broker {
	if lister == nil {
		panic("lister cannot be nil") // ALLOW-PANIC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		lister: lister,
		logger: logger.With(slog.String("component", "realtime_broker")),
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers onChange for ownerID. The current set is delivered
// immediately, then a fresh full set after every change. A snapshot that has
// not been delivered yet is replaced by a newer one. The returned function
// releases the subscription; calling it more than once is harmless. The
// subscription is also released when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, ownerID string, onChange OnChange) (func(), error) {
	if onChange == nil {
		return nil, errors.New("onChange cannot be nil")
	}

	sub := newSubscriber(onChange)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	owned, ok := b.subs[ownerID]
	if !ok {
		owned = make(map[*subscriber]struct{})
		b.subs[ownerID] = owned
	}
	owned[sub] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() { b.remove(ownerID, sub) }

	// Registered before the first read so no change between the two is lost.
	seq := b.seq.Add(1)
	tasks, err := b.lister.ListByOwner(ctx, ownerID)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("failed to load initial snapshot: %w", err)
	}

	go sub.run()
	sub.offer(seq, tasks)

	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-sub.done:
		}
	}()

	b.logger.Debug("subscriber added", slog.String("owner_id", ownerID))
	return unsubscribe, nil
}

// HandleEvent re-reads the owner's set and offers it to every subscriber of
// that owner.
func (b *Broker) HandleEvent(ctx context.Context, event *events.TaskChangeEvent) error {
	targets := b.subscribers(event.OwnerID)
	if len(targets) == 0 {
		return nil
	}

	seq := b.seq.Add(1)
	tasks, err := b.lister.ListByOwner(ctx, event.OwnerID)
	if err != nil {
		b.logger.Error("failed to load snapshot for subscribers",
			slog.String("owner_id", event.OwnerID),
			slog.String("kind", string(event.Kind)),
			slog.Any("error", err))
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	for _, sub := range targets {
		sub.offer(seq, tasks)
	}
	return nil
}

// SubscriberCount returns the number of live subscriptions for ownerID.
func (b *Broker) SubscriberCount(ownerID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[ownerID])
}

// Close releases every subscription and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	all := b.subs
	b.subs = make(map[string]map[*subscriber]struct{})
	b.mu.Unlock()

	for _, owned := range all {
		for sub := range owned {
			sub.stop()
		}
	}
}

func (b *Broker) subscribers(ownerID string) []*subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	owned := b.subs[ownerID]
	out := make([]*subscriber, 0, len(owned))
	for sub := range owned {
		out = append(out, sub)
	}
	return out
}

func (b *Broker) remove(ownerID string, sub *subscriber) {
	b.mu.Lock()
	if owned, ok := b.subs[ownerID]; ok {
		delete(owned, sub)
		if len(owned) == 0 {
			delete(b.subs, ownerID)
		}
	}
	b.mu.Unlock()
	sub.stop()
}

// subscriber owns a one-slot mailbox drained by its own goroutine.
type subscriber struct {
	onChange OnChange
	signal   chan struct{}
	done     chan struct{}
	once     sync.Once

	mu      sync.Mutex
	pending []*domain.Task
	has     bool
	lastSeq uint64
}

func newSubscriber(onChange OnChange) *subscriber {
	return &subscriber{
		onChange: onChange,
		signal:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// offer stores a snapshot unless a snapshot read later has already been
// offered.
func (s *subscriber) offer(seq uint64, tasks []*domain.Task) {
	s.mu.Lock()
	if seq < s.lastSeq {
		s.mu.Unlock()
		return
	}
	s.lastSeq = seq
	s.pending = cloneTasks(tasks)
	s.has = true
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
		}

		s.mu.Lock()
		tasks, ok := s.pending, s.has
		s.pending, s.has = nil, false
		s.mu.Unlock()

		if !ok {
			continue
		}
		select {
		case <-s.done:
			return
		default:
		}
		s.onChange(tasks)
	}
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

func cloneTasks(tasks []*domain.Task) []*domain.Task {
	out := make([]*domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
