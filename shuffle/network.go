// Package shuffle implements the all-to-all exchange used between the map and
// reduce phases: one single-slot channel per (source, destination) pair, each
// written exactly once by its source and read exactly once by its destination.
package shuffle

import (
	"fmt"
	"sync/atomic"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/tokenizer"
)

// Network is the W×W grid of single-use links between workers.
type Network struct {
	size  int
	links [][]chan tokenizer.Table
	sent  [][]atomic.Bool
}

// NewNetwork builds the links for size workers.
func NewNetwork(size int) *Network {
	links := make([][]chan tokenizer.Table, size)
	sent := make([][]atomic.Bool, size)
	for src := range links {
		links[src] = make([]chan tokenizer.Table, size)
		for dst := range links[src] {
			links[src][dst] = make(chan tokenizer.Table, 1)
		}
		sent[src] = make([]atomic.Bool, size)
	}
	return &Network{size: size, links: links, sent: sent}
}

func (n *Network) Size() int {
	return n.size
}

// Publish hands bucket to dst. It never blocks; publishing twice on the same
// pair is an invariant violation and panics.
func (n *Network) Publish(src, dst int, bucket tokenizer.Table) {
	if n.sent[src][dst].Swap(true) {
		panic(fmt.Sprintf("shuffle: link %d->%d published twice", src, dst))
	}
	n.links[src][dst] <- bucket
}

// Inbox returns the receive ends addressed to dst, indexed by source.
func (n *Network) Inbox(dst int) []<-chan tokenizer.Table {
	inbox := make([]<-chan tokenizer.Table, n.size)
	for src := range inbox {
		inbox[src] = n.links[src][dst]
	}
	return inbox
}
