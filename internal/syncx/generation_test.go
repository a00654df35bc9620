package syncx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneration_LatestWins(t *testing.T) {
	var g Generation

	first := g.Next()
	second := g.Next()

	assert.False(t, g.Current(first))
	assert.True(t, g.Current(second))
}

func TestGeneration_PeekDoesNotSupersede(t *testing.T) {
	var g Generation

	tok := g.Next()
	a := g.Peek()
	b := g.Peek()

	assert.Equal(t, tok, a)
	assert.True(t, g.Current(a))
	assert.True(t, g.Current(b))

	g.Next()
	assert.False(t, g.Current(a))
}

func TestGeneration_CloseInvalidatesEverything(t *testing.T) {
	var g Generation

	tok := g.Next()
	g.Close()

	assert.True(t, g.Closed())
	assert.False(t, g.Current(tok))
	assert.False(t, g.Current(g.Next()))
	assert.False(t, g.Current(g.Peek()))
}

func TestGeneration_ConcurrentNext(t *testing.T) {
	var g Generation
	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Next()
		}()
	}
	wg.Wait()

	require.Equal(t, Token(50), g.Peek())
}
