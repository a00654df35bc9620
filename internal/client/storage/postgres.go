package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenPostgres opens the store in the database at dsn and starts a
// LISTEN connection that wakes subscribers on every committed change.
func OpenPostgres(ctx context.Context, dsn string, opts Options) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := RunMigrations(ctx, db, dbx.Postgres); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewSQLStore(db, dbx.Postgres, opts)
	s.wg.Add(1)
	go s.listen(dsn)
	return s, nil
}

// listen keeps a LISTEN connection open until the store is closed,
// reconnecting after PollInterval on failure.
func (s *SQLStore) listen(dsn string) {
	defer s.wg.Done()

	for {
		err := s.listenOnce(s.bg, dsn)
		if s.bg.Err() != nil {
			return
		}
		s.log.Warn(s.bg, "store listener disconnected", "error", err)

		t := time.NewTimer(s.poll)
		select {
		case <-s.bg.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

func (s *SQLStore) listenOnce(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{notifyChannel}.Sanitize()); err != nil {
		return err
	}
	// Changes committed while disconnected are picked up by this pulse.
	s.hub.notify()

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if n.Payload != s.origin {
			s.hub.notify()
		}
	}
}
