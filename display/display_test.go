package display

import (
	"bytes"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/worker"
)

func TestBarrierOrder(t *testing.T) {
	const workers = 8
	b := NewBarrier()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := workers - 1; i >= 0; i-- {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			time.Sleep(time.Duration(rand.Intn(5)) * time.Millisecond)
			b.Print(id, func() {
				mu.Lock()
				order = append(order, id)
				mu.Unlock()
			})
		}(i)
	}
	wg.Wait()

	for i, id := range order {
		if id != i {
			t.Fatalf("print order = %v, expected ascending ids", order)
		}
	}
	if len(order) != workers {
		t.Errorf("expected %d prints, got %d", workers, len(order))
	}
}

func TestBlock(t *testing.T) {
	entries := []worker.Entry{
		{NGram: "a b", Count: 3},
		{NGram: "c d", Count: 3},
		{NGram: "e f", Count: 2},
	}

	tests := []struct {
		name    string
		entries []worker.Entry
		k       int
		lines   []string
	}{
		{
			name:    "fewer than k",
			entries: entries,
			k:       5,
			lines:   []string{" | a b: 3", " | c d: 3", " | e f: 2"},
		},
		{
			name:    "truncated to k",
			entries: entries,
			k:       2,
			lines:   []string{" | a b: 3", " | c d: 3"},
		},
		{
			name:    "empty",
			entries: nil,
			k:       5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Block(&buf, 4, tt.entries, tt.k); err != nil {
				t.Fatalf("Block failed: %v", err)
			}
			want := append([]string{" * =================================== Worker 4"}, tt.lines...)
			want = append(want, " * --------------------------------------------- ")
			got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Block output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
