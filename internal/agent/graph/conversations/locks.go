package conversations

import (
	"context"
	"sync"
)

// turnLocks serialises turns of the same conversation while letting different
// conversations proceed in parallel. Entries are reference counted and
// removed when the last holder or waiter leaves.
type turnLocks struct {
	mu    sync.Mutex
	locks map[string]*turnLock
}

// turnLock is a one-slot semaphore so waiting can be abandoned on ctx.Done.
type turnLock struct {
	sem  chan struct{}
	refs int
}

func newTurnLocks() *turnLocks {
	return &turnLocks{locks: make(map[string]*turnLock)}
}

// acquire blocks until the caller holds the conversation or ctx is done.
// On success it returns the release func, which is safe to call twice.
func (t *turnLocks) acquire(ctx context.Context, conversationID string) (func(), error) {
	t.mu.Lock()
	l, ok := t.locks[conversationID]
	if !ok {
		l = &turnLock{sem: make(chan struct{}, 1)}
		t.locks[conversationID] = l
	}
	l.refs++
	t.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		t.unref(conversationID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			t.unref(conversationID, l)
		})
	}, nil
}

func (t *turnLocks) unref(conversationID string, l *turnLock) {
	t.mu.Lock()
	defer t.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(t.locks, conversationID)
	}
}

func (t *turnLocks) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
