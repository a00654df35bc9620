package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/config"
	"github.com/dmitrijs2005/studydeck/internal/client/invalidation"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/storage"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is an in-memory study service.
type backend struct {
	mu      sync.Mutex
	decks   map[int64]models.Deck
	updated []models.Deck
	lists   int
}

func newBackend() *backend {
	return &backend{decks: map[int64]models.Deck{
		7: {ID: 7, Name: "Biology", Description: "cells", Cards: []models.Card{
			{ID: 1, Question: "A?", Answer: "B"},
			{ID: 2, Question: "C?", Answer: "D"},
		}},
	}}
}

func (b *backend) listCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lists
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /get-flash-cards", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.lists++
		out := []models.DeckSummary{}
		for _, d := range b.decks {
			out = append(out, d.Summary())
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("GET /get-flash-cards/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		b.mu.Lock()
		d, ok := b.decks[id]
		b.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, d)
	})
	mux.HandleFunc("PATCH /edit-flash-cards", func(w http.ResponseWriter, r *http.Request) {
		var d models.Deck
		require.NoError(t, json.NewDecoder(r.Body).Decode(&d))
		b.mu.Lock()
		b.decks[d.ID] = d
		b.updated = append(b.updated, d)
		b.mu.Unlock()
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "success", "message": []string{"ok"}})
	})
	mux.HandleFunc("POST /upload/ask", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"answer": "See <b>Chapter 2</b> & 3"})
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"error": "Unsupported file type"})
	})
	mux.HandleFunc("POST /calendar", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"response": map[string]string{"output": "**Essay** due Friday"}})
	})
	return mux
}

type testEnv struct {
	app     *App
	backend *backend
	dbPath  string
}

func newTestEnv(t *testing.T, in io.Reader) *testEnv {
	t.Helper()

	be := newBackend()
	srv := httptest.NewServer(be.handler(t))
	t.Cleanup(srv.Close)

	dbPath := filepath.Join(t.TempDir(), "studydeck.db")
	store, err := storage.OpenSQLite(context.Background(), dbPath, storage.Options{
		Origin:       "cli",
		PollInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	client := api.NewHTTPClient(srv.URL, 5*time.Second, api.WithHTTPClient(srv.Client()))
	app := newApp(cfg, logging.Nop(), store, client, in, io.Discard)
	t.Cleanup(app.Close)

	return &testEnv{app: app, backend: be, dbPath: dbPath}
}

func writeFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0o600))
	return p
}

func TestApp_EditSaveSendsWholeDeckAndSignals(t *testing.T) {
	out := captureOutput(t)
	env := newTestEnv(t, strings.NewReader(""))
	ctx := context.Background()

	require.NoError(t, env.app.Edit(ctx, []string{"7"}))
	require.NoError(t, env.app.Set(ctx, []string{"name", "Biology", "II"}))
	require.NoError(t, env.app.Card(ctx, []string{"99", "answer", "x"}))
	require.NoError(t, env.app.Save(ctx, nil))

	env.backend.mu.Lock()
	require.Len(t, env.backend.updated, 1)
	sent := env.backend.updated[0]
	env.backend.mu.Unlock()

	assert.Equal(t, "Biology II", sent.Name)
	assert.Equal(t, "cells", sent.Description)
	assert.Equal(t, []models.Card{{ID: 1, Question: "A?", Answer: "B"}, {ID: 2, Question: "C?", Answer: "D"}}, sent.Cards)

	v, err := env.app.store.Get(ctx, invalidation.Key)
	require.NoError(t, err)
	assert.NotEmpty(t, v, "save must leave a signal for other windows")

	got := out()
	assert.Contains(t, got, "Deck #7")
	assert.Contains(t, got, "has no card 99")
	assert.Contains(t, got, "Saved.")
	assert.Contains(t, env.app.status(), "edit #7 saved")
}

func TestApp_SetPromptsForMultilineValue(t *testing.T) {
	captureOutput(t)
	env := newTestEnv(t, strings.NewReader("line one\nline two\n\n"))
	ctx := context.Background()

	require.NoError(t, env.app.Edit(ctx, []string{"7"}))
	require.NoError(t, env.app.Set(ctx, []string{"description"}))

	d, ok := env.app.editor.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", d.Description)
}

func TestApp_RunScript(t *testing.T) {
	out := captureOutput(t)
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	script := strings.Join([]string{
		"study 7",
		"next",
		"next",
		"flip",
		"edit 99",
		"save",
		"summarize " + writeFile(t, "notes.pdf"),
		"calendar what is due?",
		"exit",
	}, "\n")
	env := newTestEnv(t, strings.NewReader(script))

	env.app.Run(context.Background())

	got := out()
	assert.Contains(t, got, "#7  Biology - cells")
	assert.Contains(t, got, "Biology  [1/2, question]\nA?")
	assert.Contains(t, got, "(last card)")
	assert.Contains(t, got, "Biology  [2/2, answer]\nD")
	assert.Contains(t, got, "Error: deck not found.")
	assert.Contains(t, got, "Error: deck not found.\nError: ")
	assert.Contains(t, got, "Error: the study service failed (status 200): Unsupported file type")
	assert.Contains(t, got, "**Essay** due Friday")
	assert.Contains(t, got, "Bye!")
	assert.NotContains(t, got, "> ")
}

func TestApp_UploadAndAsk(t *testing.T) {
	out := captureOutput(t)
	env := newTestEnv(t, strings.NewReader(""))
	ctx := context.Background()

	err := env.app.Ask(ctx, []string{"too", "early"})
	assert.Contains(t, failureLine(err), "upload documents first")

	require.NoError(t, env.app.Upload(ctx, []string{writeFile(t, "a.pdf"), writeFile(t, "b.pdf")}))
	require.NoError(t, env.app.Ask(ctx, []string{"where", "is", "osmosis?"}))
	require.NoError(t, env.app.Retry(ctx, nil))

	got := out()
	assert.Contains(t, got, "Uploading 2 file(s)")
	assert.Contains(t, got, "See Chapter 2 & 3")
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, env.app.status(), "2 docs")
}

func TestApp_UploadMissingFile(t *testing.T) {
	captureOutput(t)
	env := newTestEnv(t, strings.NewReader(""))

	err := env.app.Upload(context.Background(), []string{filepath.Join(t.TempDir(), "missing.pdf")})
	require.ErrorIs(t, err, api.ErrValidation)
}

func TestApp_ListenerRefreshesOnSignalFromOtherWindow(t *testing.T) {
	out := captureOutput(t)
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	pr, pw := io.Pipe()
	env := newTestEnv(t, pr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.app.Run(context.Background())
	}()
	require.Eventually(t, func() bool { return env.backend.listCalls() >= 1 }, 3*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	other, err := storage.OpenSQLite(context.Background(), env.dbPath, storage.Options{
		Origin:       "other-window",
		PollInterval: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer other.Close()
	require.NoError(t, invalidation.New(other, nil).Publish(context.Background()))

	require.Eventually(t, func() bool {
		return strings.Contains(out(), "Decks changed in another window")
	}, 3*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, env.backend.listCalls(), 2)

	require.Eventually(t, func() bool {
		v, err := other.Get(context.Background(), invalidation.Key)
		return err == nil && v == nil
	}, 3*time.Second, 10*time.Millisecond, "the signal must be consumed")

	require.NoError(t, pw.Close())
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after end of input")
	}
}
