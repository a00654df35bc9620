package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/syncx"
)

// DeckList is the list view of all decks.
type DeckList interface {
	// Refresh refetches the list. On failure the current list is kept.
	Refresh(ctx context.Context) error
	Decks() []models.DeckSummary

	Create(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error)
	// Delete removes a deck. A deck that is already gone counts as deleted.
	Delete(ctx context.Context, id int64) error

	// Listen refetches whenever another context invalidates the decks and
	// calls notify (if not nil) after each such refetch. It blocks until ctx
	// is done.
	Listen(ctx context.Context, notify func()) error

	Busy() bool
	Err() error
	Close()
}

type deckList struct {
	status

	client api.Client
	inv    Invalidator
	log    logging.Logger

	gen   syncx.Generation
	mu    sync.Mutex
	decks []models.DeckSummary
}

func NewDeckList(client api.Client, inv Invalidator, log logging.Logger) DeckList {
	if log == nil {
		log = logging.Nop()
	}
	return &deckList{
		client: client,
		inv:    inv,
		log:    log.With("component", "decklist"),
		decks:  []models.DeckSummary{},
	}
}

func (l *deckList) Refresh(ctx context.Context) error {
	tok := l.gen.Next()
	l.begin()
	defer l.end()

	decks, err := l.client.ListDecks(ctx)

	l.mu.Lock()
	if !l.gen.Current(tok) {
		l.mu.Unlock()
		return nil
	}
	if err == nil {
		l.decks = decks
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Error(ctx, "failed to fetch decks", "error", err)
		l.setErr(err)
		return fmt.Errorf("failed to fetch decks: %w", err)
	}
	l.setErr(nil)
	return nil
}

func (l *deckList) Decks() []models.DeckSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.decks)
}

func (l *deckList) Create(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error) {
	l.begin()
	created, err := l.client.CreateDeckFromDocument(ctx, file)
	l.end()

	if err != nil {
		l.log.Error(ctx, "failed to create deck", "file", file.Name, "error", err)
		if !l.gen.Closed() {
			l.setErr(err)
		}
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	l.log.Info(ctx, "deck created", "deck_id", created.ID, "file", file.Name)
	l.afterMutation(ctx)
	return created, nil
}

func (l *deckList) Delete(ctx context.Context, id int64) error {
	l.begin()
	err := l.client.DeleteDeck(ctx, id)
	l.end()

	switch {
	case errors.Is(err, api.ErrNotFound):
		l.log.Warn(ctx, "deck already deleted", "deck_id", id)
	case err != nil:
		l.log.Error(ctx, "failed to delete deck", "deck_id", id, "error", err)
		if !l.gen.Closed() {
			l.setErr(err)
		}
		return fmt.Errorf("failed to delete deck %d: %w", id, err)
	default:
		l.log.Info(ctx, "deck deleted", "deck_id", id)
	}

	l.afterMutation(ctx)
	return nil
}

// afterMutation tells other contexts and refetches here, since this
// context does not hear its own signal.
func (l *deckList) afterMutation(ctx context.Context) {
	if err := l.inv.Publish(ctx); err != nil {
		l.log.Warn(ctx, "failed to publish invalidation", "error", err)
	}
	if l.gen.Closed() {
		return
	}
	_ = l.Refresh(ctx)
}

func (l *deckList) Listen(ctx context.Context, notify func()) error {
	return l.inv.Listen(ctx, func(ctx context.Context) error {
		if l.gen.Closed() {
			return nil
		}
		err := l.Refresh(ctx)
		if err == nil && notify != nil {
			notify()
		}
		return err
	})
}

// Close detaches the view. Responses still in flight are ignored.
func (l *deckList) Close() {
	l.gen.Close()
}
