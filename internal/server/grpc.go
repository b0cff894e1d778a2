package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

const (
	researchServiceName = "ideascout.v1.ResearchService"
	submitJobMethod     = "/" + researchServiceName + "/SubmitJob"
	getJobStatusMethod  = "/" + researchServiceName + "/GetJobStatus"
)

// ResearchServiceServer exchanges google.protobuf.Struct messages:
// SubmitJob takes {keyword, location?, budget?} and returns {jobId};
// GetJobStatus takes {jobId} and returns the status view.
type ResearchServiceServer interface {
	SubmitJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetJobStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type ResearchServer struct {
	jobs   JobService
	logger *slog.Logger
}

func NewResearchServer(jobs JobService, logger *slog.Logger) *ResearchServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResearchServer{jobs: jobs, logger: logger}
}

// RegisterResearchServiceServer registers srv on s.
func RegisterResearchServiceServer(s grpc.ServiceRegistrar, srv ResearchServiceServer) {
	s.RegisterService(&ResearchServiceDesc, srv)
}

func (s *ResearchServer) SubmitJob(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input := utils.JobInputFromPB(req)
	if input.Keyword == "" {
		return nil, common.InvalidArgumentError("Missing keyword parameter")
	}
	id, err := s.jobs.Submit(ctx, input)
	if err != nil {
		s.logger.Warn("grpc.submit_job.failed", "error", err)
		return nil, common.ToGRPCError(err)
	}
	return structpb.NewStruct(map[string]any{"jobId": id})
}

func (s *ResearchServer) GetJobStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := strings.TrimSpace(req.GetFields()["jobId"].GetStringValue())
	if id == "" {
		return nil, common.InvalidArgumentError("Missing jobId parameter")
	}
	view, err := s.jobs.Status(ctx, id)
	if err != nil {
		return nil, common.ToGRPCError(err)
	}
	out, err := utils.ToPBJobStatus(view)
	if err != nil {
		s.logger.Error("grpc.job_status.encode_failed", "job_id", id, "error", err)
		return nil, common.InternalError("encode status")
	}
	return out, nil
}

func submitJobHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResearchServiceServer).SubmitJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: submitJobMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResearchServiceServer).SubmitJob(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getJobStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ResearchServiceServer).GetJobStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getJobStatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ResearchServiceServer).GetJobStatus(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ResearchServiceDesc is registered by hand; the messages are well-known
// Struct types so no generated code is involved.
var ResearchServiceDesc = grpc.ServiceDesc{
	ServiceName: researchServiceName,
	HandlerType: (*ResearchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitJob", Handler: submitJobHandler},
		{MethodName: "GetJobStatus", Handler: getJobStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ideascout/v1/research.proto",
}

// ResearchClient calls ResearchService over an existing connection.
type ResearchClient struct {
	cc grpc.ClientConnInterface
}

func NewResearchClient(cc grpc.ClientConnInterface) *ResearchClient {
	return &ResearchClient{cc: cc}
}

func (c *ResearchClient) SubmitJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, submitJobMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ResearchClient) GetJobStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getJobStatusMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ ResearchServiceServer = (*ResearchServer)(nil)
