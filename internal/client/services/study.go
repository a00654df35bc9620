package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/study"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/syncx"
)

// StudyView is what a study screen shows.
type StudyView struct {
	Deck     models.DeckSummary
	Loaded   bool
	Card     models.Card
	HasCard  bool
	Position int
	Total    int
	Side     study.Side
}

// StudySession walks the cards of one deck.
type StudySession interface {
	// Load fetches the deck and starts at its first question, also when the
	// same deck is loaded again. An unknown deck leaves an empty session.
	Load(ctx context.Context, id int64) error
	Advance() bool
	Retreat() bool
	Flip()
	View() StudyView

	Busy() bool
	Err() error
	Close()
}

type studySession struct {
	status

	client api.Client
	log    logging.Logger
	gen    syncx.Generation

	mu     sync.Mutex
	deck   *models.Deck
	cursor study.Cursor
}

func NewStudySession(client api.Client, log logging.Logger) StudySession {
	if log == nil {
		log = logging.Nop()
	}
	return &studySession{client: client, log: log.With("component", "study")}
}

func (s *studySession) Load(ctx context.Context, id int64) error {
	tok := s.gen.Next()
	s.begin()
	defer s.end()

	deck, err := s.client.GetDeck(ctx, id)

	s.mu.Lock()
	if !s.gen.Current(tok) {
		s.mu.Unlock()
		return nil
	}
	switch {
	case err == nil:
		s.deck = deck
		s.cursor.Reset(len(deck.Cards))
	case errors.Is(err, api.ErrNotFound):
		s.deck = nil
		s.cursor.Reset(0)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error(ctx, "failed to load deck", "deck_id", id, "error", err)
		s.setErr(err)
		return fmt.Errorf("failed to load deck %d: %w", id, err)
	}
	s.setErr(nil)
	return nil
}

func (s *studySession) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Advance()
}

func (s *studySession) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Retreat()
}

func (s *studySession) Flip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor.Flip()
}

func (s *studySession) View() StudyView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deck == nil {
		return StudyView{}
	}
	v := StudyView{
		Deck:   s.deck.Summary(),
		Loaded: true,
		Total:  s.cursor.Len(),
		Side:   s.cursor.Side(),
	}
	if pos, ok := s.cursor.Current(); ok {
		v.Card = s.deck.Cards[pos]
		v.HasCard = true
		v.Position = pos
	}
	return v
}

func (s *studySession) Close() {
	s.gen.Close()
}
