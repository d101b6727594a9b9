// Command ngc counts n-gram frequencies of every .txt file under a directory
// and prints the top entries of each worker in worker order.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/api"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/constants"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/display"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/master"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/worker"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("ngc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	n := flags.Int("n", 0, "n-gram width")
	workers := flags.Int("t", 0, "number of workers")
	top := flags.Int("k", constants.DEFAULT_TOP_K, "entries printed per worker")
	addr := flags.String("addr", "", "submit the job to the master at this address instead of running locally")
	verbose := flags.Bool("v", false, "verbose logging")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: ngc -n=<#gram> -t=<#workers> [-k=<top>] [-addr=<master>] <dir>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 || *n <= 0 || *workers <= 0 || *top <= 0 {
		flags.Usage()
		return 1
	}

	logger, err := setupLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	cfg := master.Config{
		Root:    flags.Arg(0),
		N:       *n,
		Workers: *workers,
		TopK:    *top,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "ngc: %v\n", err)
		flags.Usage()
		return 1
	}

	if *addr != "" {
		err = runRemote(*addr, cfg, stdout)
	} else {
		_, err = master.Run(context.Background(), cfg, stdout, logger)
	}
	if err != nil {
		logger.Error("n-gram count failed", zap.Error(err))
		return 1
	}
	return 0
}

func setupLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func runRemote(addr string, cfg master.Config, stdout io.Writer) error {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", cfg.Root, err)
	}

	conn, err := api.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	client := api.NewNgramServiceClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), constants.SUBMIT_JOB_TIMEOUT)
	submitted, err := client.SubmitJob(ctx, &api.SubmitJobRequest{
		Root:    root,
		N:       cfg.N,
		Workers: cfg.Workers,
		TopK:    cfg.TopK,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("failed to submit job: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), constants.JOB_WAIT_TIMEOUT)
	err = waitForJob(waitCtx, client, submitted.JobID, constants.JOB_POLL_INTERVAL)
	cancel()
	if err != nil {
		return err
	}

	ctx, cancel = context.WithTimeout(context.Background(), constants.GET_RESULTS_TIMEOUT)
	defer cancel()
	results, err := client.GetResults(ctx, &api.ResultsRequest{JobID: submitted.JobID})
	if err != nil {
		return fmt.Errorf("failed to fetch results of job %s: %w", submitted.JobID, err)
	}

	for _, w := range results.Workers {
		entries := make([]worker.Entry, len(w.Entries))
		for i, e := range w.Entries {
			entries[i] = worker.Entry{NGram: e.NGram, Count: e.Count}
		}
		if err := display.Block(stdout, w.ID, entries, cfg.TopK); err != nil {
			return err
		}
	}
	return nil
}

// waitForJob polls the job status until it completes, fails or ctx ends.
func waitForJob(ctx context.Context, client *api.NgramServiceClient, jobID string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}

		pollCtx, cancel := context.WithTimeout(ctx, constants.JOB_STATUS_TIMEOUT)
		st, err := client.GetJobStatus(pollCtx, &api.JobStatusRequest{JobID: jobID})
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("gave up waiting for job %s: %w", jobID, ctx.Err())
			}
			return fmt.Errorf("failed to get status of job %s: %w", jobID, err)
		}
		switch st.Status {
		case constants.JOB_COMPLETED:
			return nil
		case constants.JOB_FAILED:
			return fmt.Errorf("job %s failed: %s", jobID, st.Error)
		}
	}
}
