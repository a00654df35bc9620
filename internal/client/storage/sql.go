package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/google/uuid"
)

const notifyChannel = "studydeck_kv"

// SQLStore implements Store on database/sql for SQLite and Postgres.
type SQLStore struct {
	db        *sql.DB
	dialect   dbx.Dialect
	origin    string
	poll      time.Duration
	retention time.Duration
	log       logging.Logger
	now       func() time.Time

	hub    *wakeHub
	bg     context.Context
	cancel context.CancelFunc
	mu     sync.Mutex // guards closed against wg.Add
	wg     sync.WaitGroup
	closed atomic.Bool
	once   sync.Once
}

// NewSQLStore wraps an already migrated db. It starts no background
// watchers; OpenSQLite and OpenPostgres do.
func NewSQLStore(db *sql.DB, dialect dbx.Dialect, opts Options) *SQLStore {
	if opts.Origin == "" {
		opts.Origin = uuid.NewString()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	bg, cancel := context.WithCancel(context.Background())
	return &SQLStore{
		db:        db,
		dialect:   dialect,
		origin:    opts.Origin,
		poll:      opts.PollInterval,
		retention: opts.Retention,
		log:       opts.Logger.With("component", "store", "origin", opts.Origin),
		now:       time.Now,
		hub:       newWakeHub(),
		bg:        bg,
		cancel:    cancel,
	}
}

func (s *SQLStore) Origin() string {
	return s.origin
}

func (s *SQLStore) q(query string) string {
	return s.dialect.Rebind(query)
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q(`SELECT value FROM kv WHERE key = ?`), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if value == nil {
		value = []byte{}
	}
	now := s.now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, s.q(`INSERT INTO kv (key, value, origin, updated_at) VALUES (?, ?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, origin = excluded.origin, updated_at = excluded.updated_at`),
			key, value, s.origin, now)
		if err != nil {
			return err
		}
		return s.recordChange(ctx, tx, key, value, false, now)
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not a change.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	now := s.now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM kv WHERE key = ?`), key)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		return s.recordChange(ctx, tx, key, nil, true, now)
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM kv`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan kv row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv rows: %w", err)
	}
	return result, nil
}

// Clear deletes every key, recording one deletion per key.
func (s *SQLStore) Clear(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	now := s.now().UnixMilli()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx, `SELECT key FROM kv`)
		if err != nil {
			return err
		}
		var keys []string
		for rows.Next() {
			var k string
			if err := rows.Scan(&k); err != nil {
				rows.Close()
				return err
			}
			keys = append(keys, k)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM kv`); err != nil {
			return err
		}
		for _, k := range keys {
			if err := s.recordChange(ctx, tx, k, nil, true, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// recordChange appends to the change log and prunes expired rows. On
// Postgres it also queues a NOTIFY, sent when the transaction commits.
func (s *SQLStore) recordChange(ctx context.Context, tx dbx.DBTX, key string, value []byte, deleted bool, now int64) error {
	_, err := tx.ExecContext(ctx, s.q(`INSERT INTO kv_changes (key, value, origin, deleted, created_at) VALUES (?, ?, ?, ?, ?)`),
		key, value, s.origin, deleted, now)
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}

	if s.retention > 0 {
		cutoff := now - s.retention.Milliseconds()
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM kv_changes WHERE created_at < ?`), cutoff); err != nil {
			return fmt.Errorf("prune changes: %w", err)
		}
	}

	if s.dialect == dbx.Postgres {
		if _, err := tx.ExecContext(ctx, s.q(`SELECT pg_notify(?, ?)`), notifyChannel, s.origin); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) lastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM kv_changes`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to read change log head: %w", err)
	}
	return seq, nil
}

func (s *SQLStore) changesSince(ctx context.Context, seq int64) ([]Change, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`SELECT seq, key, value, origin, deleted FROM kv_changes WHERE seq > ? ORDER BY seq`), seq)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}
	defer rows.Close()

	var out []Change
	for rows.Next() {
		var c Change
		if err := rows.Scan(&c.Seq, &c.Key, &c.Value, &c.Origin, &c.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan change: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate changes: %w", err)
	}
	return out, nil
}

func (s *SQLStore) Subscribe(ctx context.Context) (<-chan Change, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	last, err := s.lastSeq(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.bg, cancel)
	wake, unsubscribe := s.hub.subscribe()
	out := make(chan Change, subscriberBuffer)

	if !s.track() {
		unsubscribe()
		stop()
		cancel()
		return nil, ErrClosed
	}
	go func() {
		defer s.wg.Done()
		defer close(out)
		defer unsubscribe()
		defer stop()
		defer cancel()

		ticker := time.NewTicker(s.poll)
		defer ticker.Stop()

		for {
			changes, err := s.changesSince(ctx, last)
			if err != nil && ctx.Err() == nil {
				s.log.Warn(ctx, "failed to poll change log", "error", err)
			}
			for _, c := range changes {
				last = c.Seq
				if c.Origin == s.origin {
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-wake:
			case <-ticker.C:
			}
		}
	}()

	return out, nil
}

// Close stops subscriptions and background watchers and closes the db.
// track registers a background goroutine unless the store is closed.
func (s *SQLStore) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *SQLStore) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed.Store(true)
		s.mu.Unlock()
		s.cancel()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
