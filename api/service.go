package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	SERVICE_NAME = "ngram.NgramService"

	submitJobMethod    = "/" + SERVICE_NAME + "/SubmitJob"
	getJobStatusMethod = "/" + SERVICE_NAME + "/GetJobStatus"
	getResultsMethod   = "/" + SERVICE_NAME + "/GetResults"
)

type NgramServiceServer interface {
	SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error)
	GetJobStatus(context.Context, *JobStatusRequest) (*JobStatusResponse, error)
	GetResults(context.Context, *ResultsRequest) (*ResultsResponse, error)
}

type UnimplementedNgramServiceServer struct{}

func (UnimplementedNgramServiceServer) SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitJob not implemented")
}

func (UnimplementedNgramServiceServer) GetJobStatus(context.Context, *JobStatusRequest) (*JobStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetJobStatus not implemented")
}

func (UnimplementedNgramServiceServer) GetResults(context.Context, *ResultsRequest) (*ResultsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetResults not implemented")
}

func RegisterNgramServiceServer(s grpc.ServiceRegistrar, srv NgramServiceServer) {
	s.RegisterService(&NgramService_ServiceDesc, srv)
}

var NgramService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SERVICE_NAME,
	HandlerType: (*NgramServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitJob", Handler: submitJobHandler},
		{MethodName: "GetJobStatus", Handler: getJobStatusHandler},
		{MethodName: "GetResults", Handler: getResultsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ngram.proto",
}

// unary adapts a typed call to the Struct wire form and runs it through the
// server's interceptor chain.
func unary(
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
	srv interface{},
	method string,
	call func(context.Context, *structpb.Struct) (*structpb.Struct, error),
) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return call(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func encodingError(err error) error {
	return status.Errorf(codes.Internal, "failed to encode response: %v", err)
}

func submitJobHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(ctx, dec, interceptor, srv, submitJobMethod, func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		resp, err := srv.(NgramServiceServer).SubmitJob(ctx, submitJobRequestFromStruct(in))
		if err != nil {
			return nil, err
		}
		out, err := resp.toStruct()
		if err != nil {
			return nil, encodingError(err)
		}
		return out, nil
	})
}

func getJobStatusHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(ctx, dec, interceptor, srv, getJobStatusMethod, func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		resp, err := srv.(NgramServiceServer).GetJobStatus(ctx, &JobStatusRequest{JobID: jobIDFromStruct(in)})
		if err != nil {
			return nil, err
		}
		out, err := resp.toStruct()
		if err != nil {
			return nil, encodingError(err)
		}
		return out, nil
	})
}

func getResultsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unary(ctx, dec, interceptor, srv, getResultsMethod, func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
		resp, err := srv.(NgramServiceServer).GetResults(ctx, &ResultsRequest{JobID: jobIDFromStruct(in)})
		if err != nil {
			return nil, err
		}
		out, err := resp.toStruct()
		if err != nil {
			return nil, encodingError(err)
		}
		return out, nil
	})
}
