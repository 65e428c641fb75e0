package repo

import (
	"context"
	"sync"
	"time"

	"github.com/Chative-support-poc/server/internal/agent/model"
	"github.com/cloudwego/eino/schema"
)

// minSweepAt is the map size below which inserts never trigger a sweep.
const minSweepAt = 1024

// MemoryStore is an in-process ConversationRepository and SessionRepository
// used when Redis is not configured and in tests. Entries idle longer than
// ttl are dropped on access, by Sweep, and by an insert that finds the map
// past its sweep mark.
type MemoryStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	maxMessages int
	now         func() time.Time
	entries     map[string]*memoryEntry
	sweepAt     int
}

type memoryEntry struct {
	messages  []*schema.Message
	state     *model.DialogueState
	touchedAt time.Time
}

// NewMemoryStore creates an empty store. ttl <= 0 disables expiry and
// maxMessages <= 0 keeps the full history.
func NewMemoryStore(ttl time.Duration, maxMessages int) *MemoryStore {
	return &MemoryStore{
		ttl:         ttl,
		maxMessages: maxMessages,
		now:         time.Now,
		entries:     make(map[string]*memoryEntry),
		sweepAt:     minSweepAt,
	}
}

// entry returns the live entry for id, creating it when create is set.
// Callers must hold s.mu.
func (s *MemoryStore) entry(id string, create bool) *memoryEntry {
	now := s.now()
	e, ok := s.entries[id]
	if ok && s.expired(e, now) {
		delete(s.entries, id)
		e, ok = nil, false
	}
	if !ok {
		if !create {
			return nil
		}
		if len(s.entries) >= s.sweepAt {
			s.sweepLocked(now)
			s.sweepAt = max(2*len(s.entries), minSweepAt)
		}
		e = &memoryEntry{touchedAt: now}
		s.entries[id] = e
	}
	return e
}

func (s *MemoryStore) expired(e *memoryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touchedAt) > s.ttl
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Sweep drops every expired conversation and reports how many went.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// StartJanitor sweeps every interval until the returned stop func is called.
// It is a no-op when the store has no ttl.
func (s *MemoryStore) StartJanitor(interval time.Duration) (stop func()) {
	if s.ttl <= 0 || interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
		})
	}
}

func (s *MemoryStore) touch(e *memoryEntry) {
	e.touchedAt = s.now()
}

func (s *MemoryStore) AddMessage(ctx context.Context, conversationID string, message *schema.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(conversationID, true)
	cp := *message
	e.messages = append(e.messages, &cp)
	if s.maxMessages > 0 && len(e.messages) > s.maxMessages {
		e.messages = append([]*schema.Message(nil), e.messages[len(e.messages)-s.maxMessages:]...)
	}
	s.touch(e)
	return nil
}

func (s *MemoryStore) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := []*schema.Message{}
	if e := s.entry(conversationID, false); e != nil {
		for _, m := range e.messages {
			cp := *m
			msgs = append(msgs, &cp)
		}
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (s *MemoryStore) ClearHistory(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entry(conversationID, false); e != nil {
		e.messages = nil
	}
	return nil
}

func (s *MemoryStore) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entry(conversationID, false); e != nil {
		return len(e.messages), nil
	}
	return 0, nil
}

func (s *MemoryStore) LoadState(ctx context.Context, conversationID string) (*model.DialogueState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entry(conversationID, false); e != nil && e.state != nil {
		return e.state.Clone(), nil
	}
	return model.NewDialogueState(), nil
}

func (s *MemoryStore) SaveState(ctx context.Context, conversationID string, state *model.DialogueState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(conversationID, true)
	e.state = state.Clone()
	s.touch(e)
	return nil
}

func (s *MemoryStore) ClearState(ctx context.Context, conversationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.entry(conversationID, false); e != nil {
		e.state = nil
	}
	return nil
}

// Len reports the number of stored conversations, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var (
	_ model.ConversationRepository = (*MemoryStore)(nil)
	_ model.SessionRepository      = (*MemoryStore)(nil)
)
