// Package api defines the job service exposed by the master and the client
// used to reach it. Messages travel as google.protobuf.Struct values so the
// default gRPC proto codec carries them without generated code. Counts are
// uint64 and travel as decimal strings, since Struct numbers are float64.
package api

import (
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

type SubmitJobRequest struct {
	JobID   string
	Root    string
	N       int
	Workers int
	TopK    int
}

type SubmitJobResponse struct {
	JobID    string
	Accepted bool
	Msg      string
}

type JobStatusRequest struct {
	JobID string
}

type JobStatusResponse struct {
	JobID       string
	Status      string
	Files       int
	Skipped     int
	Windows     uint64
	CreatedAt   time.Time
	CompletedAt time.Time
	Error       string
}

type ResultsRequest struct {
	JobID string
}

type Entry struct {
	NGram string
	Count uint64
}

type WorkerResult struct {
	ID      int
	Entries []Entry
}

type ResultsResponse struct {
	JobID   string
	Workers []WorkerResult
}

func (r *SubmitJobRequest) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"job_id":  r.JobID,
		"dir":     r.Root,
		"n":       r.N,
		"workers": r.Workers,
		"top":     r.TopK,
	})
}

func submitJobRequestFromStruct(s *structpb.Struct) *SubmitJobRequest {
	f := s.GetFields()
	return &SubmitJobRequest{
		JobID:   f["job_id"].GetStringValue(),
		Root:    f["dir"].GetStringValue(),
		N:       int(f["n"].GetNumberValue()),
		Workers: int(f["workers"].GetNumberValue()),
		TopK:    int(f["top"].GetNumberValue()),
	}
}

func (r *SubmitJobResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"job_id":   r.JobID,
		"accepted": r.Accepted,
		"msg":      r.Msg,
	})
}

func submitJobResponseFromStruct(s *structpb.Struct) *SubmitJobResponse {
	f := s.GetFields()
	return &SubmitJobResponse{
		JobID:    f["job_id"].GetStringValue(),
		Accepted: f["accepted"].GetBoolValue(),
		Msg:      f["msg"].GetStringValue(),
	}
}

func jobIDToStruct(jobID string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{"job_id": jobID})
}

func jobIDFromStruct(s *structpb.Struct) string {
	return s.GetFields()["job_id"].GetStringValue()
}

func (r *JobStatusResponse) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"job_id":       r.JobID,
		"status":       r.Status,
		"files":        r.Files,
		"skipped":      r.Skipped,
		"windows":      formatCount(r.Windows),
		"created_at":   formatTime(r.CreatedAt),
		"completed_at": formatTime(r.CompletedAt),
		"error":        r.Error,
	})
}

func jobStatusResponseFromStruct(s *structpb.Struct) (*JobStatusResponse, error) {
	f := s.GetFields()
	createdAt, err := parseTime(f["created_at"].GetStringValue())
	if err != nil {
		return nil, err
	}
	completedAt, err := parseTime(f["completed_at"].GetStringValue())
	if err != nil {
		return nil, err
	}
	windows, err := parseCount(f["windows"].GetStringValue())
	if err != nil {
		return nil, err
	}
	return &JobStatusResponse{
		JobID:       f["job_id"].GetStringValue(),
		Status:      f["status"].GetStringValue(),
		Files:       int(f["files"].GetNumberValue()),
		Skipped:     int(f["skipped"].GetNumberValue()),
		Windows:     windows,
		CreatedAt:   createdAt,
		CompletedAt: completedAt,
		Error:       f["error"].GetStringValue(),
	}, nil
}

func (r *ResultsResponse) toStruct() (*structpb.Struct, error) {
	workers := make([]interface{}, 0, len(r.Workers))
	for _, w := range r.Workers {
		entries := make([]interface{}, 0, len(w.Entries))
		for _, e := range w.Entries {
			entries = append(entries, map[string]interface{}{
				"ngram": e.NGram,
				"count": formatCount(e.Count),
			})
		}
		workers = append(workers, map[string]interface{}{
			"id":      w.ID,
			"entries": entries,
		})
	}
	return structpb.NewStruct(map[string]interface{}{
		"job_id":  r.JobID,
		"workers": workers,
	})
}

func resultsResponseFromStruct(s *structpb.Struct) (*ResultsResponse, error) {
	f := s.GetFields()
	resp := &ResultsResponse{JobID: f["job_id"].GetStringValue()}
	for _, wv := range f["workers"].GetListValue().GetValues() {
		wf := wv.GetStructValue().GetFields()
		w := WorkerResult{ID: int(wf["id"].GetNumberValue())}
		for _, ev := range wf["entries"].GetListValue().GetValues() {
			ef := ev.GetStructValue().GetFields()
			count, err := parseCount(ef["count"].GetStringValue())
			if err != nil {
				return nil, err
			}
			w.Entries = append(w.Entries, Entry{
				NGram: ef["ngram"].GetStringValue(),
				Count: count,
			})
		}
		resp.Workers = append(resp.Workers, w)
	}
	return resp, nil
}

func formatCount(c uint64) string {
	return strconv.FormatUint(c, 10)
}

func parseCount(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	c, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", s, err)
	}
	return c, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
