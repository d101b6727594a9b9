package master

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/api"
	"github.com/TLI-1994/Multithreaded-n-gram-Counter/constants"
)

type Job struct {
	ID          string
	Config      Config
	Status      string
	Result      *Result
	Err         error
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Master runs counting jobs submitted over gRPC, one pipeline per job.
type Master struct {
	api.UnimplementedNgramServiceServer

	mu     sync.Mutex
	jobs   map[string]*Job
	logger *zap.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	server *grpc.Server
}

func NewMaster(logger *zap.Logger) *Master {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Master{
		jobs:   make(map[string]*Job),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Master) SubmitJob(ctx context.Context, req *api.SubmitJobRequest) (*api.SubmitJobResponse, error) {
	cfg := Config{
		Root:    req.Root,
		N:       req.N,
		Workers: req.Workers,
		TopK:    req.TopK,
	}
	if err := cfg.Validate(); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid job: %v", err)
	}
	if cfg.Root == "" {
		return nil, status.Error(codes.InvalidArgument, ErrMissingRoot.Error())
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return nil, status.Error(codes.Unavailable, "master is shutting down")
	}
	if _, exists := m.jobs[jobID]; exists {
		return nil, status.Errorf(codes.AlreadyExists, "job %s already exists", jobID)
	}

	m.logger.Info("received job submission", zap.String("job", jobID), zap.String("dir", cfg.Root))

	job := &Job{
		ID:        jobID,
		Config:    cfg,
		Status:    constants.JOB_PENDING,
		CreatedAt: time.Now(),
	}
	m.jobs[jobID] = job

	m.wg.Add(1)
	go m.runJob(job)

	return &api.SubmitJobResponse{
		JobID:    jobID,
		Accepted: true,
		Msg:      "Job accepted and queued",
	}, nil
}

func (m *Master) runJob(job *Job) {
	defer m.wg.Done()

	m.mu.Lock()
	job.Status = constants.JOB_RUNNING
	cfg := job.Config
	m.mu.Unlock()

	logger := m.logger.With(zap.String("job", job.ID))
	result, err := Run(m.ctx, cfg, io.Discard, logger)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	job.CompletedAt = &now
	job.Result = result
	if err != nil {
		logger.Warn("job failed", zap.Error(err))
		job.Status = constants.JOB_FAILED
		job.Err = err
		return
	}
	logger.Info("job completed", zap.Duration("elapsed", now.Sub(job.CreatedAt)))
	job.Status = constants.JOB_COMPLETED
}

func (m *Master) GetJobStatus(ctx context.Context, req *api.JobStatusRequest) (*api.JobStatusResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[req.JobID]
	if !exists {
		return nil, status.Errorf(codes.NotFound, "job %s not found", req.JobID)
	}

	resp := &api.JobStatusResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}
	if job.CompletedAt != nil {
		resp.CompletedAt = *job.CompletedAt
	}
	if job.Result != nil {
		resp.Files = job.Result.Files
		resp.Skipped = len(job.Result.Skipped)
		resp.Windows = job.Result.Windows
	}
	if job.Err != nil {
		resp.Error = job.Err.Error()
	}
	return resp, nil
}

// GetResults returns the top entries of every worker once the job completed.
func (m *Master) GetResults(ctx context.Context, req *api.ResultsRequest) (*api.ResultsResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[req.JobID]
	if !exists {
		return nil, status.Errorf(codes.NotFound, "job %s not found", req.JobID)
	}
	if job.Status != constants.JOB_COMPLETED {
		return nil, status.Errorf(codes.FailedPrecondition, "job %s is %s", job.ID, job.Status)
	}

	topK := job.Config.topK()
	resp := &api.ResultsResponse{JobID: job.ID}
	for id, entries := range job.Result.Workers {
		wr := api.WorkerResult{ID: id}
		for i := 0; i < len(entries) && i < topK; i++ {
			wr.Entries = append(wr.Entries, api.Entry{NGram: entries[i].NGram, Count: entries[i].Count})
		}
		resp.Workers = append(resp.Workers, wr)
	}
	return resp, nil
}

func (m *Master) Serve(lis net.Listener) error {
	server := grpc.NewServer()
	api.RegisterNgramServiceServer(server, m)

	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		return nil
	}
	m.server = server
	m.mu.Unlock()

	m.logger.Info("master server starting", zap.String("address", lis.Addr().String()))
	if err := server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (m *Master) Start(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}
	return m.Serve(lis)
}

// Shutdown cancels running jobs, waits for them and stops the server. Jobs
// submitted after Shutdown started are rejected with Unavailable.
func (m *Master) Shutdown() {
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()
	m.wg.Wait()

	m.mu.Lock()
	server := m.server
	m.mu.Unlock()
	if server != nil {
		server.GracefulStop()
	}
}
