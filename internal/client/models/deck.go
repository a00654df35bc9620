// Package models defines the client-side data model of the study service.
package models

// Card is a single question/answer pair of a deck. ID is stable across edits.
type Card struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Deck is a named, ordered collection of cards. The server owns it and
// assigns ID. On the wire the cards are called "qasets".
type Deck struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cards       []Card `json:"qasets"`
}

// DeckSummary is a deck as returned by the list endpoint, without cards.
type DeckSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Clone returns a deep copy of d. A nil card slice stays nil.
func (d Deck) Clone() Deck {
	out := d
	if d.Cards != nil {
		out.Cards = make([]Card, len(d.Cards))
		copy(out.Cards, d.Cards)
	}
	return out
}

// Summary drops the cards.
func (d Deck) Summary() DeckSummary {
	return DeckSummary{ID: d.ID, Name: d.Name, Description: d.Description}
}

// CardIndex returns the position of the card with the given id, or -1.
func (d Deck) CardIndex(id int64) int {
	for i, c := range d.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
