package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/logging"
)

// Assistant runs the one-shot document and calendar requests. Answers are
// markdown.
type Assistant interface {
	// Summarize runs action over a document; an empty action summarizes as
	// a paragraph.
	Summarize(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error)
	AskCalendar(ctx context.Context, question string) (string, error)

	Busy() bool
	Err() error
}

type assistant struct {
	status

	client api.Client
	log    logging.Logger
}

func NewAssistant(client api.Client, log logging.Logger) Assistant {
	if log == nil {
		log = logging.Nop()
	}
	return &assistant{client: client, log: log.With("component", "assistant")}
}

func (a *assistant) Summarize(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error) {
	if action == "" {
		action = models.ActionSummarizeParagraph
	}

	a.begin()
	out, err := a.client.Chat(ctx, file, action)
	a.end()

	a.setErr(err)
	if err != nil {
		a.log.Error(ctx, "chat request failed", "file", file.Name, "action", action, "error", err)
		return "", fmt.Errorf("failed to %s %s: %w", action, file.Name, err)
	}
	return out, nil
}

func (a *assistant) AskCalendar(ctx context.Context, question string) (string, error) {
	a.begin()
	out, err := a.client.AskCalendar(ctx, question)
	a.end()

	a.setErr(err)
	if err != nil {
		a.log.Error(ctx, "calendar request failed", "error", err)
		return "", fmt.Errorf("failed to ask calendar: %w", err)
	}
	return out, nil
}
