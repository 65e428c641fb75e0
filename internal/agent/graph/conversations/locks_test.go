package conversations

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTurnLocks_SerialisesSameConversation(t *testing.T) {
	locks := newTurnLocks()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.acquire(context.Background(), "same")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Zero(t, locks.size(), "entries are dropped after the last release")
}

func TestTurnLocks_DifferentConversationsRunInParallel(t *testing.T) {
	locks := newTurnLocks()

	releaseA, err := locks.acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		defer close(done)
		release, err := locks.acquire(context.Background(), "b")
		if err == nil {
			release()
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("conversation b blocked behind conversation a")
	}
}

func TestTurnLocks_ReleaseIsIdempotent(t *testing.T) {
	locks := newTurnLocks()
	release, err := locks.acquire(context.Background(), "a")
	require.NoError(t, err)
	release()
	release()

	again, err := locks.acquire(context.Background(), "a")
	require.NoError(t, err)
	again()
	assert.Zero(t, locks.size())
}

func TestTurnLocks_WaitRespectsContext(t *testing.T) {
	locks := newTurnLocks()

	hold, err := locks.acquire(context.Background(), "busy")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	release, err := locks.acquire(ctx, "busy")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, release)
	assert.Less(t, time.Since(start), time.Second)

	hold()
	assert.Zero(t, locks.size(), "an abandoned wait leaves no entry behind")

	release, err = locks.acquire(context.Background(), "busy")
	require.NoError(t, err)
	release()
}
