package cli

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/services"
	"github.com/dmitrijs2005/studydeck/internal/client/study"
	"github.com/microcosm-cc/bluemonday"
)

var markdownPolicy = bluemonday.StrictPolicy()

// renderMarkdown strips any HTML from a model answer. The markdown itself
// reads fine in a terminal and is printed as is.
func renderMarkdown(s string) string {
	return strings.TrimSpace(html.UnescapeString(markdownPolicy.Sanitize(s)))
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

// failureLine is the single line printed when a command fails.
func failureLine(err error) string {
	var (
		se    *api.ServerError
		usage usageError
	)
	switch {
	case errors.As(err, &usage):
		return "Usage: " + string(usage)
	case errors.Is(err, api.ErrNetwork):
		return "Error: cannot reach the study service. Check that it is running and try again."
	case errors.As(err, &se):
		if se.Message != "" {
			return fmt.Sprintf("Error: the study service failed (status %d): %s", se.StatusCode, se.Message)
		}
		return fmt.Sprintf("Error: the study service failed (status %d)", se.StatusCode)
	case errors.Is(err, api.ErrNotFound):
		return "Error: deck not found."
	case errors.Is(err, services.ErrNotLoaded):
		return "Error: no deck open. Use 'edit <id>' first."
	case errors.Is(err, services.ErrNotConfirmed):
		return "Error: upload documents first with 'upload <file>...'."
	default:
		return "Error: " + err.Error()
	}
}

func formatDeckList(decks []models.DeckSummary) string {
	if len(decks) == 0 {
		return "No decks yet. Create one with 'create <file>'."
	}
	var b strings.Builder
	for i, d := range decks {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "#%d  %s", d.ID, d.Name)
		if d.Description != "" {
			fmt.Fprintf(&b, " - %s", d.Description)
		}
	}
	return b.String()
}

func formatDeck(d models.Deck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deck #%d\n  name:        %s\n  description: %s\n", d.ID, d.Name, d.Description)
	if len(d.Cards) == 0 {
		b.WriteString("  (no cards)")
		return b.String()
	}
	for _, c := range d.Cards {
		fmt.Fprintf(&b, "  card %d\n    Q: %s\n    A: %s\n", c.ID, c.Question, c.Answer)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatStudyView(v services.StudyView) string {
	if !v.Loaded {
		return "No deck to study. Use 'study <id>'."
	}
	if !v.HasCard {
		return fmt.Sprintf("%s has no cards.", v.Deck.Name)
	}
	text := v.Card.Question
	if v.Side == study.Answer {
		text = v.Card.Answer
	}
	return fmt.Sprintf("%s  [%d/%d, %s]\n%s", v.Deck.Name, v.Position+1, v.Total, v.Side, text)
}
