package storage

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/logging"
)

var ErrClosed = errors.New("store closed")

// Change is one committed write. Deleted changes carry no value.
type Change struct {
	Seq     int64
	Key     string
	Value   []byte
	Origin  string
	Deleted bool
}

// Store is an origin-scoped key/value store with change notifications.
type Store interface {
	// Get returns nil, nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error

	// Origin identifies the context that owns this handle.
	Origin() string
	// Subscribe delivers changes committed by other origins after the call.
	// The channel is closed when ctx is done or the store is closed.
	Subscribe(ctx context.Context) (<-chan Change, error)

	Close() error
}

type Options struct {
	// Origin defaults to a random UUID.
	Origin string
	// PollInterval bounds how long a missed wake-up can delay delivery.
	PollInterval time.Duration
	// Retention is how long change-log rows are kept. Zero keeps them.
	Retention time.Duration
	Logger    logging.Logger
}

const (
	defaultPollInterval = time.Second
	subscriberBuffer    = 16
)
