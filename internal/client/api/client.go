package api

import (
	"context"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
)

// Client is the request/response contract of the study service.
type Client interface {
	ListDecks(ctx context.Context) ([]models.DeckSummary, error)
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	CreateDeckFromDocument(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error)
	// UpdateDeck replaces the whole deck. There is no partial update.
	UpdateDeck(ctx context.Context, deck models.Deck) error
	DeleteDeck(ctx context.Context, id int64) error

	Chat(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error)
	AskCalendar(ctx context.Context, question string) (string, error)
	UploadDocuments(ctx context.Context, files []models.FileDescriptor) error
	AskUploads(ctx context.Context, question string) (string, error)
}
