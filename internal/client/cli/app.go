package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/config"
	"github.com/dmitrijs2005/studydeck/internal/client/invalidation"
	"github.com/dmitrijs2005/studydeck/internal/client/services"
	"github.com/dmitrijs2005/studydeck/internal/client/storage"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	store  storage.Store

	decks     services.DeckList
	editor    services.DeckEditor
	study     services.StudySession
	upload    services.UploadSession
	assistant services.Assistant

	reader *bufio.Reader
	out    io.Writer
	once   sync.Once
}

// NewApp opens the shared store and wires the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := openStore(ctx, c, log)
	if err != nil {
		log.Error(ctx, "failed to open store", "driver", c.StoreDriver, "error", err)
		return nil, err
	}

	client := api.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)
	return newApp(c, log, store, client, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, log logging.Logger, store storage.Store, client api.Client, in io.Reader, out io.Writer) *App {
	ch := invalidation.New(store, log)
	return &App{
		config:    c,
		log:       log,
		store:     store,
		decks:     services.NewDeckList(client, ch, log),
		editor:    services.NewDeckEditor(client, ch, log, services.WithConfirmationTTL(c.ConfirmationTTL)),
		study:     services.NewStudySession(client, log),
		upload:    services.NewUploadSession(client, log),
		assistant: services.NewAssistant(client, log),
		reader:    bufio.NewReader(in),
		out:       out,
	}
}

func openStore(ctx context.Context, c *config.Config, log logging.Logger) (storage.Store, error) {
	opts := storage.Options{
		PollInterval: c.PollInterval,
		Retention:    c.ChangeRetention,
		Logger:       log,
	}
	switch c.StoreDriver {
	case "", "sqlite":
		return storage.OpenSQLite(ctx, c.StorePath, opts)
	case "postgres":
		if c.StoreDSN == "" {
			return nil, fmt.Errorf("store driver postgres needs a DSN")
		}
		return storage.OpenPostgres(ctx, c.StoreDSN, opts)
	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
}

// Run fetches the deck list, starts the invalidation listener and runs the
// REPL until the user exits. The app is closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to studydeck CLI (type 'help' for commands)")
	if err := a.decks.Refresh(ctx); err != nil {
		printlnFn(failureLine(err))
	} else {
		printlnFn(formatDeckList(a.decks.Decks()))
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.decks.Listen(ctx, a.onDecksChanged); err != nil {
			a.log.Warn(ctx, "invalidation listener stopped", "error", err)
		}
	}()

	runREPL(ctx, a, a.prompt, a.reader)

	cancel()
	wg.Wait()
}

func (a *App) onDecksChanged() {
	printlnFn("\n* Decks changed in another window. Current decks:")
	printlnFn(formatDeckList(a.decks.Decks()))
}

// prompt shows what is open. Nothing is printed when stdin is not a
// terminal, so piped input produces clean output.
func (a *App) prompt() string {
	if !isTerminal(int(os.Stdin.Fd())) {
		return ""
	}
	return a.status() + "> "
}

func (a *App) status() string {
	var parts []string
	if d, ok := a.editor.Snapshot(); ok {
		s := fmt.Sprintf("edit #%d", d.ID)
		if a.editor.Confirmed() {
			s += " saved"
		}
		parts = append(parts, s)
	}
	if v := a.study.View(); v.Loaded {
		parts = append(parts, fmt.Sprintf("study #%d %d/%d", v.Deck.ID, v.Position+1, v.Total))
	}
	if st := a.upload.State(); st.Confirmed {
		parts = append(parts, fmt.Sprintf("%d docs", len(st.Files)))
	}
	if a.decks.Busy() {
		parts = append(parts, "refreshing")
	}

	if len(parts) == 0 {
		return "studydeck"
	}
	return "studydeck (" + strings.Join(parts, ", ") + ")"
}

// Close detaches the views and closes the store. It is safe to call more
// than once.
func (a *App) Close() {
	a.once.Do(func() {
		a.decks.Close()
		a.editor.Close()
		a.study.Close()
		a.upload.Close()
		if err := a.store.Close(); err != nil {
			a.log.Warn(context.Background(), "failed to close store", "error", err)
		}
	})
}
