// Package cli provides the interactive studydeck command-line client.
//
// It wires configuration, the shared local store, the invalidation channel,
// the API client and the view services, and runs a read-eval-print loop over
// them. A background goroutine listens for invalidations raised by other
// running clients and refreshes the deck list.
//
// Commands:
//   - decks, create, delete: the deck list
//   - edit, set, card, show, save: the deck editor
//   - study, next, prev, flip: a study session
//   - upload, retry, ask: questions over uploaded documents
//   - summarize, calendar: one-shot assistant requests
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
