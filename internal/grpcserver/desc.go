package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "jobs.v1.JobService"

// JobServiceServer is the server API for jobs.v1.JobService. Requests and
// responses are google.protobuf.Struct / ListValue documents whose fields
// mirror the REST JSON bodies.
type JobServiceServer interface {
	CreateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListJobs(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes jobs.v1.JobService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateJob", Handler: unary("CreateJob", JobServiceServer.CreateJob)},
		{MethodName: "ListJobs", Handler: unary("ListJobs", JobServiceServer.ListJobs)},
		{MethodName: "GetJob", Handler: unary("GetJob", JobServiceServer.GetJob)},
		{MethodName: "UpdateJob", Handler: unary("UpdateJob", JobServiceServer.UpdateJob)},
		{MethodName: "RemoveJob", Handler: unary("RemoveJob", JobServiceServer.RemoveJob)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobs/v1/jobs.proto",
}

// Register mounts srv on s.
func Register(s grpc.ServiceRegistrar, srv JobServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the "/service/method" path of a JobService method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed method to grpc.MethodHandler, running it through
// the server's interceptor chain when one is installed.
func unary[Resp any](
	method string,
	call func(JobServiceServer, context.Context, *structpb.Struct) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JobServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JobServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}
