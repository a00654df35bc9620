// Package syncx holds small concurrency helpers.
package syncx

import "sync"

// Token identifies one request issued through a Generation.
type Token uint64

// Generation is a liveness counter for asynchronous completions. Each new
// request takes a token with Next; when the response arrives the handler
// applies it only if Current still reports the token. A newer Next or a
// Close makes every older token stale.
//
// The zero value is ready to use.
type Generation struct {
	mu     sync.Mutex
	n      uint64
	closed bool
}

// Next starts a new generation and returns its token.
func (g *Generation) Next() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return Token(g.n)
}

// Peek returns the current token without starting a new generation. It is
// used by handlers that must be dropped by a later Next but do not
// supersede each other.
func (g *Generation) Peek() Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Token(g.n)
}

// Current reports whether t is still the latest token and the generation is
// open.
func (g *Generation) Current(t Token) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.closed && uint64(t) == g.n
}

// Close makes all tokens stale, now and in the future.
func (g *Generation) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.n++
}

func (g *Generation) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}
