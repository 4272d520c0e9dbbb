package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftmate/pkg/logger"
)

type source struct {
	mu   sync.Mutex
	data []string
	err  error
}

func (s *source) set(v ...string) {
	s.mu.Lock()
	s.data = v
	s.mu.Unlock()
}

func (s *source) query(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]string(nil), s.data...), nil
}

func TestWatch_SnapshotThenUpdates(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}

	var got [][]string
	sub, err := Watch(context.Background(), hub, []Topic{TopicFriends}, src.query, func(v []string) {
		got = append(got, v)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, sub.Snapshot())
	assert.Empty(t, got, "initial snapshot is not delivered through the callback")

	src.set("a", "b")
	hub.Publish(context.Background(), TopicFriends)
	assert.Equal(t, [][]string{{"a", "b"}}, got)
	assert.Equal(t, []string{"a", "b"}, sub.Snapshot())

	// unrelated topic
	src.set("c")
	hub.Publish(context.Background(), TopicItems)
	assert.Len(t, got, 1)

	// same data still notifies
	hub.Publish(context.Background(), TopicFriends, TopicItems)
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, got)
}

func TestWatch_InitialQueryError(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{err: errors.New("db gone")}

	_, err := Watch(context.Background(), hub, []Topic{TopicFriends}, src.query, nil)
	require.Error(t, err)
	assert.Zero(t, hub.Len())
}

func TestSubscription_RefreshErrorKeepsSnapshot(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}
	calls := 0
	sub, err := Watch(context.Background(), hub, []Topic{TopicFriends}, src.query, func([]string) { calls++ })
	require.NoError(t, err)

	src.mu.Lock()
	src.err = errors.New("transient")
	src.mu.Unlock()
	hub.Publish(context.Background(), TopicFriends)

	assert.Zero(t, calls)
	assert.Equal(t, []string{"a"}, sub.Snapshot())
}

func TestSubscription_CancelStopsCallbacks(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}

	var counts []int
	hub.OnCountChange(func(n int) { counts = append(counts, n) })

	calls := 0
	sub, err := Watch(context.Background(), hub, []Topic{TopicCategories}, src.query, func([]string) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Len())

	sub.Cancel()
	sub.Cancel()
	assert.True(t, sub.Cancelled())
	assert.Zero(t, hub.Len())

	hub.Publish(context.Background(), TopicCategories)
	assert.Zero(t, calls)
	assert.Equal(t, []int{1, 0}, counts)
}

func TestSubscription_CancelWaitsForRunningCallback(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}

	entered := make(chan struct{})
	release := make(chan struct{})
	var running, afterCancel atomic.Bool
	var cancelled atomic.Bool

	sub, err := Watch(context.Background(), hub, []Topic{TopicItems}, src.query, func([]string) {
		if cancelled.Load() {
			afterCancel.Store(true)
		}
		running.Store(true)
		close(entered)
		<-release
		running.Store(false)
	})
	require.NoError(t, err)

	go hub.Publish(context.Background(), TopicItems)
	<-entered

	done := make(chan struct{})
	go func() {
		sub.Cancel()
		cancelled.Store(true)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Cancel returned while a callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-done
	assert.False(t, running.Load())

	hub.Publish(context.Background(), TopicItems)
	assert.False(t, afterCancel.Load())
}

func TestSubscription_SnapshotFromCallback(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}

	var seen []string
	var sub *Subscription[string]
	sub, err := Watch(context.Background(), hub, []Topic{TopicItems}, src.query, func([]string) {
		seen = sub.Snapshot()
	})
	require.NoError(t, err)

	src.set("z")
	hub.Publish(context.Background(), TopicItems)
	assert.Equal(t, []string{"z"}, seen)
}

func TestWatch_PublishDuringInitialQuery(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"1"}}

	first := true
	query := func(ctx context.Context) ([]string, error) {
		rows, err := src.query(ctx)
		if first {
			first = false
			// A writer commits right after the first read.
			src.set("2")
			hub.Publish(ctx, TopicItems)
		}
		return rows, err
	}

	var got [][]string
	sub, err := Watch(context.Background(), hub, []Topic{TopicItems}, query, func(v []string) {
		got = append(got, v)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Equal(t, []string{"2"}, sub.Snapshot())
	assert.Equal(t, [][]string{{"2"}}, got)
}

func TestSubscription_OlderResultNeverWins(t *testing.T) {
	hub := NewHub(logger.Discard())
	src := &source{data: []string{"a"}}

	release := make(chan struct{})
	var slow atomic.Bool
	query := func(ctx context.Context) ([]string, error) {
		rows, err := src.query(ctx)
		if slow.CompareAndSwap(true, false) {
			<-release
		}
		return rows, err
	}

	var mu sync.Mutex
	var got [][]string
	sub, err := Watch(context.Background(), hub, []Topic{TopicFriends}, query, func(v []string) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Cancel()

	// The first refresh reads "b" and stalls; a second one reads "c" and lands first.
	src.set("b")
	slow.Store(true)
	done := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), TopicFriends)
		close(done)
	}()
	require.Eventually(t, func() bool { return !slow.Load() }, time.Second, time.Millisecond)

	src.set("c")
	hub.Publish(context.Background(), TopicFriends)
	close(release)
	<-done

	assert.Equal(t, []string{"c"}, sub.Snapshot())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]string{{"c"}}, got)
}
