package api

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

type NgramServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNgramServiceClient(cc grpc.ClientConnInterface) *NgramServiceClient {
	return &NgramServiceClient{cc: cc}
}

// Dial connects to a master without transport security.
func Dial(address string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to master %s: %w", address, err)
	}
	return conn, nil
}

func (c *NgramServiceClient) SubmitJob(ctx context.Context, req *SubmitJobRequest, opts ...grpc.CallOption) (*SubmitJobResponse, error) {
	in, err := req.toStruct()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitJobMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return submitJobResponseFromStruct(out), nil
}

func (c *NgramServiceClient) GetJobStatus(ctx context.Context, req *JobStatusRequest, opts ...grpc.CallOption) (*JobStatusResponse, error) {
	in, err := jobIDToStruct(req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getJobStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return jobStatusResponseFromStruct(out)
}

func (c *NgramServiceClient) GetResults(ctx context.Context, req *ResultsRequest, opts ...grpc.CallOption) (*ResultsResponse, error) {
	in, err := jobIDToStruct(req.JobID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getResultsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return resultsResponseFromStruct(out)
}
