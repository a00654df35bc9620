package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
)

// fakeClient answers from function fields; unset methods panic through the
// embedded nil interface.
type fakeClient struct {
	api.Client

	ListDecksFn  func(ctx context.Context) ([]models.DeckSummary, error)
	GetDeckFn    func(ctx context.Context, id int64) (*models.Deck, error)
	CreateFn     func(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error)
	UpdateDeckFn func(ctx context.Context, deck models.Deck) error
	DeleteDeckFn func(ctx context.Context, id int64) error
	ChatFn       func(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error)
	CalendarFn   func(ctx context.Context, q string) (string, error)
	UploadFn     func(ctx context.Context, files []models.FileDescriptor) error
	AskFn        func(ctx context.Context, q string) (string, error)
}

func (f *fakeClient) ListDecks(ctx context.Context) ([]models.DeckSummary, error) {
	return f.ListDecksFn(ctx)
}

func (f *fakeClient) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	return f.GetDeckFn(ctx, id)
}

func (f *fakeClient) CreateDeckFromDocument(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error) {
	return f.CreateFn(ctx, file)
}

func (f *fakeClient) UpdateDeck(ctx context.Context, deck models.Deck) error {
	return f.UpdateDeckFn(ctx, deck)
}

func (f *fakeClient) DeleteDeck(ctx context.Context, id int64) error {
	return f.DeleteDeckFn(ctx, id)
}

func (f *fakeClient) Chat(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error) {
	return f.ChatFn(ctx, file, action)
}

func (f *fakeClient) AskCalendar(ctx context.Context, q string) (string, error) {
	return f.CalendarFn(ctx, q)
}

func (f *fakeClient) UploadDocuments(ctx context.Context, files []models.FileDescriptor) error {
	return f.UploadFn(ctx, files)
}

func (f *fakeClient) AskUploads(ctx context.Context, q string) (string, error) {
	return f.AskFn(ctx, q)
}

type fakeInvalidator struct {
	mu        sync.Mutex
	published int
	signals   chan struct{}
}

func newFakeInvalidator() *fakeInvalidator {
	return &fakeInvalidator{signals: make(chan struct{}, 4)}
}

func (f *fakeInvalidator) Publish(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published++
	return nil
}

func (f *fakeInvalidator) Published() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published
}

func (f *fakeInvalidator) Listen(ctx context.Context, refetch func(ctx context.Context) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-f.signals:
			_ = refetch(ctx)
		}
	}
}

// fakeTimer records scheduled callbacks so tests decide when time passes.
type fakeTimer struct {
	mu      sync.Mutex
	pending []*fakeTimerEntry
}

type fakeTimerEntry struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (e *fakeTimerEntry) Stop() bool {
	was := !e.stopped
	e.stopped = true
	return was
}

func (ft *fakeTimer) afterFunc(d time.Duration, f func()) interface{ Stop() bool } {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	e := &fakeTimerEntry{d: d, f: f}
	ft.pending = append(ft.pending, e)
	return e
}

// fire runs every scheduled callback that was not stopped.
func (ft *fakeTimer) fire() {
	ft.mu.Lock()
	entries := ft.pending
	ft.pending = nil
	ft.mu.Unlock()
	for _, e := range entries {
		if !e.stopped {
			e.f()
		}
	}
}

func (ft *fakeTimer) last() *fakeTimerEntry {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.pending) == 0 {
		return nil
	}
	return ft.pending[len(ft.pending)-1]
}
