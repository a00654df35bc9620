// Package invalidation tells deck views in other running contexts that the
// decks changed on the server and must be refetched.
//
// A context that mutated decks writes a timestamp under Key in the shared
// store. Every other context listening on the store runs its refetch and
// then deletes the key, consuming the signal. The store never reports a
// context's own writes back to it, so the writer refetches on its own.
package invalidation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/storage"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

// Key is the store key carrying the signal.
const Key = "stackUpdated"

type Channel struct {
	store storage.Store
	log   logging.Logger
	now   func() time.Time
}

func New(store storage.Store, log logging.Logger) *Channel {
	if log == nil {
		log = logging.Nop()
	}
	return &Channel{
		store: store,
		log:   log.With("component", "invalidation"),
		now:   time.Now,
	}
}

// Publish raises the signal. The payload is the current time in Unix
// milliseconds, so consecutive signals always differ.
func (c *Channel) Publish(ctx context.Context) error {
	v := strconv.FormatInt(c.now().UnixMilli(), 10)
	if err := c.store.Set(ctx, Key, []byte(v)); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Listen runs refetch each time another context raises the signal, then
// deletes the key. Signals already queued when refetch starts are folded
// into that one refetch. Deletions are not signals. Listen blocks until ctx
// is done (returning nil) or the store is closed.
func (c *Channel) Listen(ctx context.Context, refetch func(ctx context.Context) error) error {
	changes, err := c.store.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				return c.closedErr(ctx)
			}
			if !isSignal(ch) {
				continue
			}

			open := drain(changes)
			c.log.Debug(ctx, "invalidation received", "from", ch.Origin, "value", string(ch.Value))
			c.consume(ctx, refetch)
			if !open {
				return c.closedErr(ctx)
			}
		}
	}
}

func (c *Channel) consume(ctx context.Context, refetch func(ctx context.Context) error) {
	if err := refetch(ctx); err != nil {
		c.log.Warn(ctx, "refetch after invalidation failed", "error", err)
	}
	if err := c.store.Delete(ctx, Key); err != nil {
		c.log.Warn(ctx, "failed to consume invalidation", "error", err)
	}
}

func (c *Channel) closedErr(ctx context.Context) error {
	if ctx.Err() != nil {
		return nil
	}
	return storage.ErrClosed
}

func isSignal(ch storage.Change) bool {
	return ch.Key == Key && !ch.Deleted
}

// drain discards whatever is already queued and reports whether the
// subscription is still open.
func drain(changes <-chan storage.Change) bool {
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}
