package master

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/constants"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/discovery"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/display"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/shuffle"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/tokenizer"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/worker"
)

var (
	ErrInvalidWorkers = errors.New("worker count must be positive")
	ErrTooManyWorkers = fmt.Errorf("worker count must not exceed %d", constants.MAX_WORKERS)
	ErrInvalidTopK    = errors.New("top-k must not be negative")
	ErrMissingRoot    = errors.New("root directory is required")
)

type Config struct {
	Root    string
	N       int
	Workers int
	// TopK entries are printed per worker; zero selects the default.
	TopK int

	// ReadFile replaces os.ReadFile in the map phase.
	ReadFile worker.ReadFunction
}

func (c Config) Validate() error {
	if c.N <= 0 {
		return tokenizer.ErrInvalidN
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Workers > constants.MAX_WORKERS {
		return ErrTooManyWorkers
	}
	if c.TopK < 0 {
		return ErrInvalidTopK
	}
	return nil
}

func (c Config) topK() int {
	if c.TopK == 0 {
		return constants.DEFAULT_TOP_K
	}
	return c.TopK
}

type Result struct {
	Files   int
	Skipped []string
	Windows uint64
	// Workers holds each worker's full sorted list, indexed by worker id.
	Workers [][]worker.Entry
}

// Run discovers the .txt files under cfg.Root and counts them.
func Run(ctx context.Context, cfg Config, out io.Writer, logger *zap.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Root == "" {
		return nil, ErrMissingRoot
	}
	files, err := discovery.Find(cfg.Root, constants.TXT_EXTENSION)
	if err != nil {
		return nil, err
	}
	return Process(ctx, cfg, files, out, logger)
}

// Process runs the map, shuffle, reduce, sort and display phases over files
// with cfg.Workers goroutines and writes one block per worker to out in
// worker-id order.
func Process(ctx context.Context, cfg Config, files []string, out io.Writer, logger *zap.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	tok, err := tokenizer.New(cfg.N)
	if err != nil {
		return nil, err
	}
	if cfg.Workers > runtime.NumCPU() {
		logger.Info("more workers than CPUs", zap.Int("workers", cfg.Workers), zap.Int("cpus", runtime.NumCPU()))
	}
	logger.Info("starting run",
		zap.Int("n", cfg.N),
		zap.Int("workers", cfg.Workers),
		zap.Int("files", len(files)))

	assignments := Distribute(files, cfg.Workers)
	workers := make([]*worker.Worker, cfg.Workers)
	for i := range workers {
		workers[i] = worker.NewWorker(i, assignments[i], tok, cfg.ReadFile, logger)
	}

	net := shuffle.NewNetwork(cfg.Workers)
	barrier := display.NewBarrier()
	topK := cfg.topK()

	var writeErr error
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker.Worker) {
			defer wg.Done()
			w.Map(ctx)
			w.Shuffle(net)
			w.Reduce(net.Inbox(w.ID))
			w.Sort()
			barrier.Print(w.ID, func() {
				if err := display.Block(out, w.ID, w.Results, topK); err != nil && writeErr == nil {
					writeErr = fmt.Errorf("failed to print results of worker %d: %w", w.ID, err)
				}
			})
		}(w)
	}
	wg.Wait()

	result := &Result{
		Files:   len(files),
		Workers: make([][]worker.Entry, cfg.Workers),
	}
	for i, w := range workers {
		result.Workers[i] = w.Results
		result.Windows += w.Windows
		result.Skipped = append(result.Skipped, w.Skipped...)
	}
	logger.Info("run finished",
		zap.Uint64("windows", result.Windows),
		zap.Int("skipped", len(result.Skipped)))

	if writeErr != nil {
		return result, writeErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
