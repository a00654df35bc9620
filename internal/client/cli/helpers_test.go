package cli

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

// captureOutput redirects printlnFn and printFn for the duration of the test.
func captureOutput(t *testing.T) func() string {
	t.Helper()
	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)
	origPrintln, origPrint := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintln(&buf, a...)
	}
	printFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprint(&buf, a...)
	}
	t.Cleanup(func() { printlnFn, printFn = origPrintln, origPrint })

	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return buf.String()
	}
}
