package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/shuffle"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/tokenizer"
)

func memoryFiles(files map[string]string) ReadFunction {
	return func(path string) ([]byte, error) {
		content, ok := files[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		return []byte(content), nil
	}
}

func newTokenizer(t *testing.T, n int) *tokenizer.Tokenizer {
	t.Helper()
	tok, err := tokenizer.New(n)
	if err != nil {
		t.Fatalf("tokenizer.New failed: %v", err)
	}
	return tok
}

func TestMapSkipsUnreadableFiles(t *testing.T) {
	read := memoryFiles(map[string]string{
		"a.txt": "one two three",
		"c.txt": "two three",
	})
	w := NewWorker(0, []string{"a.txt", "b.txt", "c.txt"}, newTokenizer(t, 2), read, zaptest.NewLogger(t))
	w.Map(context.Background())

	want := tokenizer.Table{"one two": 1, "two three": 2}
	if diff := cmp.Diff(want, w.local); diff != "" {
		t.Errorf("local table mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b.txt"}, w.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	if w.Windows != 3 {
		t.Errorf("windows = %d, expected 3", w.Windows)
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWorker(0, []string{"a.txt"}, newTokenizer(t, 1), memoryFiles(map[string]string{"a.txt": "word"}), nil)
	w.Map(ctx)
	if len(w.local) != 0 {
		t.Errorf("expected an empty table after cancellation, got %v", w.local)
	}

	net := shuffle.NewNetwork(1)
	w.Shuffle(net)
	select {
	case <-net.Inbox(0)[0]:
	default:
		t.Errorf("cancelled worker did not publish its bucket")
	}
}

func TestShuffleReduce(t *testing.T) {
	const size = 3
	files := map[string]string{
		"0.txt": "the cat sat on the mat",
		"1.txt": "the cat ate the rat. the mat",
		"2.txt": "",
	}
	net := shuffle.NewNetwork(size)
	workers := make([]*Worker, size)
	for i := range workers {
		name := []string{"0.txt", "1.txt", "2.txt"}[i]
		workers[i] = NewWorker(i, []string{name}, newTokenizer(t, 2), memoryFiles(files), zaptest.NewLogger(t))
		workers[i].Map(context.Background())
		workers[i].Shuffle(net)
	}

	total := tokenizer.Table{}
	for _, content := range files {
		if _, err := tokenizer.Count([]byte(content), 2, total); err != nil {
			t.Fatalf("Count failed: %v", err)
		}
	}

	merged := tokenizer.Table{}
	for _, w := range workers {
		w.Reduce(net.Inbox(w.ID))
		for ngram, count := range w.Reduced() {
			if p := Partition(ngram, size); p != w.ID {
				t.Errorf("worker %d holds %q owned by %d", w.ID, ngram, p)
			}
			if _, dup := merged[ngram]; dup {
				t.Errorf("%q held by more than one worker", ngram)
			}
			merged[ngram] = count
		}
	}
	if diff := cmp.Diff(total, merged); diff != "" {
		t.Errorf("reduced tables mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceConsumesInArrivalOrder(t *testing.T) {
	const size = 3
	net := shuffle.NewNetwork(size)
	w := NewWorker(0, nil, newTokenizer(t, 1), nil, nil)

	// only source 2 is ready when Reduce starts
	net.Publish(2, 0, tokenizer.Table{})
	done := make(chan struct{})
	go func() {
		w.Reduce(net.Inbox(0))
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatalf("Reduce finished before every source published")
	default:
	}

	key := ""
	for k := 0; ; k++ {
		key = string(rune('a' + k))
		if Partition(key, size) == 0 {
			break
		}
	}
	net.Publish(1, 0, tokenizer.Table{key: 2})
	net.Publish(0, 0, tokenizer.Table{key: 3})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Reduce did not finish")
	}
	if got := w.Reduced()[key]; got != 5 {
		t.Errorf("reduced[%q] = %d, expected 5", key, got)
	}
}

func TestSortEntries(t *testing.T) {
	entries := []Entry{
		{"e f", 2},
		{"c d", 3},
		{"a b", 3},
	}
	SortEntries(entries)
	want := []Entry{
		{"a b", 3},
		{"c d", 3},
		{"e f", 2},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionStable(t *testing.T) {
	for _, ngram := range []string{"a b", "the cat", "x"} {
		p := Partition(ngram, 7)
		if p < 0 || p >= 7 {
			t.Errorf("Partition(%q, 7) = %d out of range", ngram, p)
		}
		if again := Partition(ngram, 7); again != p {
			t.Errorf("Partition(%q) not stable: %d then %d", ngram, p, again)
		}
	}
	if p := Partition("anything", 1); p != 0 {
		t.Errorf("Partition with one worker = %d, expected 0", p)
	}
}
