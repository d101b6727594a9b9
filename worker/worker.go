// Package worker runs one slice of the counting pipeline: map the assigned
// files, publish the partitioned buckets, reduce the owned partition and sort it.
package worker

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"runtime"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/shuffle"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/tokenizer"
)

// ReadFunction loads a file. os.ReadFile is used when none is given.
type ReadFunction func(path string) ([]byte, error)

// Entry is one reduced n-gram and its total count.
type Entry struct {
	NGram string
	Count uint64
}

// Worker owns one slice of the input files and, after the shuffle, the
// authoritative totals of every n-gram whose partition id equals ID.
type Worker struct {
	ID    int
	Files []string

	tokenizer *tokenizer.Tokenizer
	readFile  ReadFunction
	logger    *zap.Logger

	local   tokenizer.Table
	buckets []tokenizer.Table
	reduced tokenizer.Table

	Results []Entry
	Windows uint64
	Skipped []string
}

// NewWorker returns worker id bound to its files and the shared tokenizer.
func NewWorker(id int, files []string, tok *tokenizer.Tokenizer, readFile ReadFunction, logger *zap.Logger) *Worker {
	if readFile == nil {
		readFile = os.ReadFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		ID:        id,
		Files:     files,
		tokenizer: tok,
		readFile:  readFile,
		logger:    logger.With(zap.Int("worker", id)),
	}
}

// Map tokenizes every assigned file into the local table. Unreadable files are
// logged and skipped. A cancelled context stops reading further files but
// leaves the worker ready to shuffle.
func (w *Worker) Map(ctx context.Context) {
	w.local = make(tokenizer.Table)

	for _, file := range w.Files {
		if ctx.Err() != nil {
			w.logger.Warn("map phase cancelled", zap.Error(ctx.Err()))
			return
		}
		content, err := w.readFile(file)
		if err != nil {
			w.logger.Warn("skipping unreadable file", zap.String("file", file), zap.Error(err))
			w.Skipped = append(w.Skipped, file)
			continue
		}
		w.Windows += w.tokenizer.Count(content, w.local)
	}
	w.logger.Debug("map phase done",
		zap.Int("files", len(w.Files)-len(w.Skipped)),
		zap.Int("ngrams", len(w.local)),
		zap.Uint64("windows", w.Windows))
}

// Shuffle partitions the local table and publishes one bucket to every
// worker, itself included, even when the table is empty.
func (w *Worker) Shuffle(net *shuffle.Network) {
	size := net.Size()
	w.buckets = make([]tokenizer.Table, size)
	for i := range w.buckets {
		w.buckets[i] = make(tokenizer.Table)
	}

	for ngram, count := range w.local {
		w.buckets[Partition(ngram, size)][ngram] = count
	}
	w.local = nil

	for dst, bucket := range w.buckets {
		net.Publish(w.ID, dst, bucket)
	}
	w.buckets = nil
}

// Reduce consumes one bucket from every source. Pending links are polled
// round robin without blocking, so buckets are merged in arrival order.
func (w *Worker) Reduce(inbox []<-chan tokenizer.Table) {
	w.reduced = make(tokenizer.Table)

	pending := make([]<-chan tokenizer.Table, len(inbox))
	copy(pending, inbox)

	for len(pending) > 0 {
		progress := false
		next := pending[:0]
		for _, link := range pending {
			select {
			case bucket := <-link:
				w.merge(bucket, len(inbox))
				progress = true
			default:
				next = append(next, link)
			}
		}
		pending = next
		if !progress {
			runtime.Gosched()
		}
	}
}

func (w *Worker) merge(bucket tokenizer.Table, size int) {
	for ngram, count := range bucket {
		if p := Partition(ngram, size); p != w.ID {
			panic(fmt.Sprintf("worker %d received %q owned by partition %d", w.ID, ngram, p))
		}
		w.reduced[ngram] += count
	}
}

// Sort flattens the reduced table into Results, ordered by count descending
// and then by n-gram ascending.
func (w *Worker) Sort() {
	w.Results = make([]Entry, 0, len(w.reduced))
	for ngram, count := range w.reduced {
		w.Results = append(w.Results, Entry{NGram: ngram, Count: count})
	}
	SortEntries(w.Results)
}

// Reduced returns the authoritative table built by Reduce.
func (w *Worker) Reduced() tokenizer.Table {
	return w.reduced
}

func SortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return strings.Compare(a.NGram, b.NGram)
	})
}

// Partition returns the id of the worker that owns ngram among size workers.
func Partition(ngram string, size int) int {
	return int(hash(ngram) % uint32(size))
}

func hash(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}
