package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudySession_BiologyScenario(t *testing.T) {
	fc := &fakeClient{GetDeckFn: func(context.Context, int64) (*models.Deck, error) { return biologyDeck(), nil }}
	s := NewStudySession(fc, nil)

	require.NoError(t, s.Load(context.Background(), 7))
	v := s.View()
	assert.True(t, v.Loaded)
	assert.Equal(t, "Biology", v.Deck.Name)
	assert.Equal(t, 0, v.Position)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "A?", v.Card.Question)
	assert.Equal(t, study.Question, v.Side)

	assert.True(t, s.Advance())
	assert.Equal(t, 1, s.View().Position)
	assert.False(t, s.Advance())
	assert.Equal(t, 1, s.View().Position)

	s.Flip()
	assert.Equal(t, study.Answer, s.View().Side)
	assert.Equal(t, "D", s.View().Card.Answer)
}

func TestStudySession_ReloadResetsCursor(t *testing.T) {
	fc := &fakeClient{GetDeckFn: func(context.Context, int64) (*models.Deck, error) { return biologyDeck(), nil }}
	s := NewStudySession(fc, nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, 7))
	s.Advance()
	s.Flip()

	require.NoError(t, s.Load(ctx, 7))
	v := s.View()
	assert.Equal(t, 0, v.Position)
	assert.Equal(t, study.Question, v.Side)
}

func TestStudySession_EmptyDeckAndNotFound(t *testing.T) {
	var deck *models.Deck
	var err error
	fc := &fakeClient{GetDeckFn: func(context.Context, int64) (*models.Deck, error) { return deck, err }}
	s := NewStudySession(fc, nil)
	ctx := context.Background()

	deck = &models.Deck{ID: 3, Name: "empty"}
	require.NoError(t, s.Load(ctx, 3))
	assert.False(t, s.Advance())
	assert.False(t, s.Retreat())
	s.Flip()
	v := s.View()
	assert.True(t, v.Loaded)
	assert.False(t, v.HasCard)
	assert.Equal(t, study.Question, v.Side)

	deck, err = nil, api.ErrNotFound
	require.ErrorIs(t, s.Load(ctx, 4), api.ErrNotFound)
	assert.Equal(t, StudyView{}, s.View())
	assert.ErrorIs(t, s.Err(), api.ErrNotFound)
}

func TestStudySession_LateLoadAfterCloseIgnored(t *testing.T) {
	release := make(chan struct{})
	fc := &fakeClient{GetDeckFn: func(context.Context, int64) (*models.Deck, error) {
		<-release
		return biologyDeck(), nil
	}}
	s := NewStudySession(fc, nil)

	done := make(chan error)
	go func() { done <- s.Load(context.Background(), 7) }()
	require.Eventually(t, s.Busy, time.Second, time.Millisecond)
	s.Close()
	close(release)
	require.NoError(t, <-done)

	assert.False(t, s.View().Loaded)
}
