package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/syncx"
)

// DefaultConfirmationTTL is how long the "saved" confirmation stays up.
const DefaultConfirmationTTL = 3 * time.Second

// DeckEditor holds the edit buffer of one deck: a full copy of the deck as
// fetched, changed locally and submitted whole.
type DeckEditor interface {
	// Hydrate fetches the deck and replaces the buffer, dropping unsaved
	// edits. A later Hydrate wins over an earlier one still in flight.
	Hydrate(ctx context.Context, id int64) error
	// SetField sets "name" or "description".
	SetField(name, value string) error
	// SetCardField sets "question" or "answer" of a card. An unknown card id
	// leaves the buffer as it is.
	SetCardField(cardID int64, field, value string) error
	// Submit sends the whole buffer. On success the confirmation is raised
	// for the confirmation TTL and other contexts are told to refetch.
	Submit(ctx context.Context) error

	// Snapshot returns a copy of the buffer.
	Snapshot() (models.Deck, bool)
	Confirmed() bool

	Busy() bool
	Err() error
	Close()
}

type EditorOption func(*deckEditor)

func WithConfirmationTTL(d time.Duration) EditorOption {
	return func(e *deckEditor) {
		if d > 0 {
			e.ttl = d
		}
	}
}

// timerFunc matches time.AfterFunc.
type timerFunc func(d time.Duration, f func()) interface{ Stop() bool }

type deckEditor struct {
	status

	client api.Client
	inv    Invalidator
	log    logging.Logger

	ttl        time.Duration
	afterFunc  timerFunc
	hydrateGen syncx.Generation

	mu        sync.Mutex
	buf       *models.Deck
	confirmed bool
	confirmID uint64
	timer     interface{ Stop() bool }
}

func NewDeckEditor(client api.Client, inv Invalidator, log logging.Logger, opts ...EditorOption) DeckEditor {
	if log == nil {
		log = logging.Nop()
	}
	e := &deckEditor{
		client: client,
		inv:    inv,
		log:    log.With("component", "editor"),
		ttl:    DefaultConfirmationTTL,
		afterFunc: func(d time.Duration, f func()) interface{ Stop() bool } {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *deckEditor) Hydrate(ctx context.Context, id int64) error {
	tok := e.hydrateGen.Next()
	e.begin()
	defer e.end()

	deck, err := e.client.GetDeck(ctx, id)

	e.mu.Lock()
	if !e.hydrateGen.Current(tok) {
		e.mu.Unlock()
		return nil
	}
	switch {
	case err == nil:
		clone := deck.Clone()
		e.buf = &clone
	case errors.Is(err, api.ErrNotFound):
		e.buf = nil
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Error(ctx, "failed to load deck", "deck_id", id, "error", err)
		e.setErr(err)
		return fmt.Errorf("failed to load deck %d: %w", id, err)
	}
	e.setErr(nil)
	return nil
}

func (e *deckEditor) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf == nil {
		return ErrNotLoaded
	}
	switch name {
	case "name":
		e.buf.Name = value
	case "description":
		e.buf.Description = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

func (e *deckEditor) SetCardField(cardID int64, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.buf == nil {
		return ErrNotLoaded
	}
	if field != "question" && field != "answer" {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	i := e.buf.CardIndex(cardID)
	if i < 0 {
		return nil
	}
	if field == "question" {
		e.buf.Cards[i].Question = value
	} else {
		e.buf.Cards[i].Answer = value
	}
	return nil
}

func (e *deckEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.buf == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	deck := e.buf.Clone()
	e.mu.Unlock()

	e.begin()
	err := e.client.UpdateDeck(ctx, deck)
	e.end()

	if err != nil {
		e.log.Error(ctx, "failed to save deck", "deck_id", deck.ID, "error", err)
		if !e.hydrateGen.Closed() {
			e.setErr(err)
		}
		return fmt.Errorf("failed to save deck %d: %w", deck.ID, err)
	}

	e.log.Info(ctx, "deck saved", "deck_id", deck.ID)
	if err := e.inv.Publish(ctx); err != nil {
		e.log.Warn(ctx, "failed to publish invalidation", "error", err)
	}

	if e.hydrateGen.Closed() {
		return nil
	}
	e.setErr(nil)
	e.confirm()
	return nil
}

// confirm raises the confirmation and schedules its removal. A newer
// confirmation restarts the countdown.
func (e *deckEditor) confirm() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
	}
	e.confirmID++
	id := e.confirmID
	e.confirmed = true
	e.timer = e.afterFunc(e.ttl, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.confirmID == id {
			e.confirmed = false
			e.timer = nil
		}
	})
}

func (e *deckEditor) Snapshot() (models.Deck, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf == nil {
		return models.Deck{}, false
	}
	return e.buf.Clone(), true
}

func (e *deckEditor) Confirmed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confirmed
}

func (e *deckEditor) Close() {
	e.hydrateGen.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.confirmID++
	e.confirmed = false
}
