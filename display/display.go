// Package display prints per-worker result blocks in worker-id order.
package display

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/worker"
)

// Barrier admits callers one at a time in ticket order: the caller holding
// ticket i runs only after tickets 0..i-1 have run.
type Barrier struct {
	mu   sync.Mutex
	cond *sync.Cond
	next int
}

func NewBarrier() *Barrier {
	b := &Barrier{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Print blocks until it is ticket's turn, runs fn and wakes every waiter.
func (b *Barrier) Print(ticket int, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.next != ticket {
		b.cond.Wait()
	}
	fn()
	b.next++
	b.cond.Broadcast()
}

// Block writes the header, at most k entries and the footer of one worker.
func Block(w io.Writer, id int, entries []worker.Entry, k int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, " * =================================== Worker %d\n", id)
	for i := 0; i < len(entries) && i < k; i++ {
		fmt.Fprintf(bw, " | %s: %d\n", entries[i].NGram, entries[i].Count)
	}
	fmt.Fprintln(bw, " * --------------------------------------------- ")
	return bw.Flush()
}
