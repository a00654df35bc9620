package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studydeck/internal/dbx"
	"github.com/dmitrijs2005/studydeck/internal/filex"
	"github.com/fsnotify/fsnotify"
	_ "modernc.org/sqlite"
)

// sqliteDSN enables WAL so readers in other processes are not blocked by a
// writer, waits on locks instead of failing, and takes the write lock at
// BEGIN.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// OpenSQLite opens (creating if needed) the store file at path and starts a
// file watcher that wakes subscribers when another process writes to it.
func OpenSQLite(ctx context.Context, path string, opts Options) (*SQLStore, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", sqliteDSN(abs))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", abs, err)
	}
	if err := RunMigrations(ctx, db, dbx.SQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewSQLStore(db, dbx.SQLite, opts)
	if err := s.watchFile(abs); err != nil {
		s.log.Warn(ctx, "file watcher unavailable, falling back to polling", "error", err)
	}
	return s, nil
}

// watchFile watches the directory holding the database, since the -wal and
// -shm files come and go.
func (s *SQLStore) watchFile(path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return err
	}

	base := filepath.Base(path)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer w.Close()

		for {
			select {
			case <-s.bg.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(filepath.Base(ev.Name), base) {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					s.hub.notify()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn(s.bg, "file watcher error", "error", err)
			}
		}
	}()
	return nil
}
