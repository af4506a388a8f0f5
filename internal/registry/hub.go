package registry

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sreyaslbs/todayinclass/internal/models"
	"github.com/sreyaslbs/todayinclass/pkg/config"
)

// ClassLoader fetches the complete class collection from the store.
type ClassLoader interface {
	ListAll(ctx context.Context) ([]models.ClassRecord, error)
}

// UpdateLoader fetches the complete daily-update collection.
type UpdateLoader interface {
	ListAll(ctx context.Context) ([]models.UpdateRecord, error)
}

// Hub wires the registries to the store's change-notification channel.
// Writers publish the touched collection name after every successful
// store write; every subscriber reloads that collection wholesale and
// swaps its registry snapshot.
type Hub struct {
	classes       *ClassRegistry
	updates       *UpdateRegistry
	classLoader   ClassLoader
	updateLoader  UpdateLoader
	client        *redis.Client
	channel       string
	reloadTimeout time.Duration
	retryBackoff  time.Duration
	logger        *zap.Logger
}

// NewHub builds a hub over the given registries and loaders.
func NewHub(
	classes *ClassRegistry,
	updates *UpdateRegistry,
	classLoader ClassLoader,
	updateLoader UpdateLoader,
	client *redis.Client,
	cfg config.RegistryConfig,
	logger *zap.Logger,
) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		classes:       classes,
		updates:       updates,
		classLoader:   classLoader,
		updateLoader:  updateLoader,
		client:        client,
		channel:       cfg.Channel,
		reloadTimeout: cfg.ReloadTimeout,
		retryBackoff:  cfg.RetryBackoff,
		logger:        logger,
	}
}

// Publish announces that a collection changed. Called by write paths
// after the store acknowledged; a failed publish is logged, not
// returned, because the write itself already succeeded.
func (h *Hub) Publish(ctx context.Context, collection string) {
	if err := h.client.Publish(ctx, h.channel, collection).Err(); err != nil {
		h.logger.Warn("registry publish failed",
			zap.String("collection", collection), zap.Error(err))
	}
}

// subscription is the part of *redis.PubSub the follow loop needs.
type subscription interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// Run primes both registries and then follows change notifications
// until the context is cancelled. Subscription errors back off and
// resubscribe rather than terminating the registries.
func (h *Hub) Run(ctx context.Context) error {
	h.Reload(ctx, CollectionClasses)
	h.Reload(ctx, CollectionUpdates)

	return h.follow(ctx, func() subscription {
		return h.client.Subscribe(ctx, h.channel)
	})
}

// follow consumes change notifications until the context ends. Every
// subscription it opens is closed, including ones abandoned by a
// resubscribe.
func (h *Hub) follow(ctx context.Context, subscribe func() subscription) error {
	sub := subscribe()
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(h.retryBackoff):
				}
				_ = sub.Close()
				sub = subscribe()
				ch = sub.Channel()
				continue
			}
			h.Reload(ctx, msg.Payload)
		}
	}
}

// Reload fetches one collection in full and swaps the matching registry
// snapshot. Unknown collection names are ignored so the channel can be
// shared with future collections.
func (h *Hub) Reload(ctx context.Context, collection string) {
	reloadCtx, cancel := context.WithTimeout(ctx, h.reloadTimeout)
	defer cancel()

	switch collection {
	case CollectionClasses:
		classes, err := h.classLoader.ListAll(reloadCtx)
		if err != nil {
			h.logger.Error("class registry reload failed", zap.Error(err))
			return
		}
		h.classes.Replace(classes)
		h.logger.Debug("class registry reloaded", zap.Int("count", len(classes)))
	case CollectionUpdates:
		updates, err := h.updateLoader.ListAll(reloadCtx)
		if err != nil {
			h.logger.Error("update registry reload failed", zap.Error(err))
			return
		}
		h.updates.Replace(updates)
		h.logger.Debug("update registry reloaded", zap.Int("count", len(updates)))
	default:
		h.logger.Debug("ignoring unknown collection notification",
			zap.String("collection", collection))
	}
}
