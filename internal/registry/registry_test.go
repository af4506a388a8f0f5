package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/pkg/config"
)

type classLoaderStub struct {
	classes []models.ClassRecord
	err     error
	calls   int
}

func (s *classLoaderStub) ListAll(ctx context.Context) ([]models.ClassRecord, error) {
	s.calls++
	return s.classes, s.err
}

type updateLoaderStub struct {
	updates []models.UpdateRecord
	err     error
}

func (s *updateLoaderStub) ListAll(ctx context.Context) ([]models.UpdateRecord, error) {
	return s.updates, s.err
}

func TestClassRegistrySnapshotIsWholesale(t *testing.T) {
	reg := NewClassRegistry()
	assert.Empty(t, reg.Snapshot())

	first := []models.ClassRecord{{ID: "c1"}, {ID: "c2"}}
	reg.Replace(first)

	held := reg.Snapshot()
	require.Len(t, held, 2)

	// A replacement must not disturb a snapshot taken before it.
	reg.Replace([]models.ClassRecord{{ID: "c3"}})
	assert.Len(t, held, 2)
	assert.Equal(t, "c1", held[0].ID)

	current := reg.Snapshot()
	require.Len(t, current, 1)
	assert.Equal(t, "c3", current[0].ID)
}

func TestClassRegistryFind(t *testing.T) {
	reg := NewClassRegistry()
	reg.Replace([]models.ClassRecord{{ID: "c1", Grade: "5", Section: "A"}})

	class, ok := reg.Find("c1")
	require.True(t, ok)
	assert.Equal(t, "5", class.Grade)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
}

func TestUpdateRegistryFindSlot(t *testing.T) {
	date, err := models.ParseDate("2026-03-02")
	require.NoError(t, err)

	reg := NewUpdateRegistry()
	reg.Replace([]models.UpdateRecord{
		{ID: "u1", ClassID: "c1", Date: date, PeriodNumber: 3},
		{ID: "u2", ClassID: "c1", Date: date, PeriodNumber: 4},
	})

	update, ok := reg.FindSlot("c1", date, 3)
	require.True(t, ok)
	assert.Equal(t, "u1", update.ID)

	_, ok = reg.FindSlot("c1", date.AddDays(1), 3)
	assert.False(t, ok)
	_, ok = reg.FindSlot("c2", date, 3)
	assert.False(t, ok)
}

func TestHubReloadSwapsMatchingRegistry(t *testing.T) {
	classes := NewClassRegistry()
	updates := NewUpdateRegistry()
	classLoader := &classLoaderStub{classes: []models.ClassRecord{{ID: "c1"}}}
	updateLoader := &updateLoaderStub{updates: []models.UpdateRecord{{ID: "u1"}}}

	hub := NewHub(classes, updates, classLoader, updateLoader, nil, config.RegistryConfig{
		Channel:       "collection_changed",
		ReloadTimeout: time.Second,
		RetryBackoff:  10 * time.Millisecond,
	}, zap.NewNop())

	hub.Reload(context.Background(), CollectionClasses)
	assert.Len(t, classes.Snapshot(), 1)
	assert.Empty(t, updates.Snapshot())

	hub.Reload(context.Background(), CollectionUpdates)
	assert.Len(t, updates.Snapshot(), 1)
}

func TestHubReloadKeepsSnapshotOnLoaderError(t *testing.T) {
	classes := NewClassRegistry()
	classes.Replace([]models.ClassRecord{{ID: "stale"}})
	classLoader := &classLoaderStub{err: errors.New("store down")}

	hub := NewHub(classes, NewUpdateRegistry(), classLoader, &updateLoaderStub{}, nil, config.RegistryConfig{
		Channel:       "collection_changed",
		ReloadTimeout: time.Second,
	}, zap.NewNop())

	hub.Reload(context.Background(), CollectionClasses)

	// A failed reload keeps serving the last good snapshot.
	snapshot := classes.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "stale", snapshot[0].ID)
}

type pubSubStub struct {
	mu     sync.Mutex
	ch     chan *redis.Message
	closed bool
}

func (s *pubSubStub) Channel(opts ...redis.ChannelOption) <-chan *redis.Message {
	return s.ch
}

func (s *pubSubStub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *pubSubStub) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestHubFollowClosesEverySubscription(t *testing.T) {
	classes := NewClassRegistry()
	classLoader := &classLoaderStub{classes: []models.ClassRecord{{ID: "c1"}}}
	hub := NewHub(classes, NewUpdateRegistry(), classLoader, &updateLoaderStub{}, nil, config.RegistryConfig{
		Channel:       "collection_changed",
		ReloadTimeout: time.Second,
		RetryBackoff:  10 * time.Millisecond,
	}, zap.NewNop())

	// The first subscription drops immediately, forcing a resubscribe;
	// the second delivers one notification and then outlives the loop.
	first := &pubSubStub{ch: make(chan *redis.Message)}
	close(first.ch)
	second := &pubSubStub{ch: make(chan *redis.Message, 1)}
	second.ch <- &redis.Message{Payload: CollectionClasses}

	subs := []*pubSubStub{first, second}
	calls := 0
	subscribe := func() subscription {
		sub := subs[calls]
		calls++
		return sub
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.follow(ctx, subscribe) }()

	require.Eventually(t, func() bool {
		return len(classes.Snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	assert.Equal(t, 2, calls)
	assert.True(t, first.isClosed())
	assert.True(t, second.isClosed())
}

func TestHubReloadIgnoresUnknownCollections(t *testing.T) {
	classLoader := &classLoaderStub{}
	hub := NewHub(NewClassRegistry(), NewUpdateRegistry(), classLoader, &updateLoaderStub{}, nil, config.RegistryConfig{
		Channel:       "collection_changed",
		ReloadTimeout: time.Second,
	}, zap.NewNop())

	hub.Reload(context.Background(), "unrelated")
	assert.Zero(t, classLoader.calls)
}
