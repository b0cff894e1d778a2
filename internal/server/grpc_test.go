package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

func newGRPCClient(t *testing.T, jobs JobService) *ResearchClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	RegisterResearchServiceServer(s, NewResearchServer(jobs, nil))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewResearchClient(conn)
}

func TestGRPC_SubmitAndStatus(t *testing.T) {
	m := newTestManager(t, reportRunner(nil))
	client := newGRPCClient(t, m)
	ctx := context.Background()

	in, err := structpb.NewStruct(map[string]any{"keyword": "tea", "budget": "$50"})
	require.NoError(t, err)
	out, err := client.SubmitJob(ctx, in)
	require.NoError(t, err)
	id := out.GetFields()["jobId"].GetStringValue()
	require.NotEmpty(t, id)

	req, err := structpb.NewStruct(map[string]any{"jobId": id})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := client.GetJobStatus(ctx, req)
		if err != nil {
			return false
		}
		view, err := utils.JobStatusFromPB(res)
		if err != nil || view.Status != constants.JobStatusCompleted {
			return false
		}
		return view.Result != nil && view.Result.Problem == "P" &&
			view.Input.Budget == "$50" && view.Input.Location == "Azerbaijan"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestGRPC_Errors(t *testing.T) {
	m := newTestManager(t, reportRunner(nil))
	client := newGRPCClient(t, m)
	ctx := context.Background()

	_, err := client.SubmitJob(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.GetJobStatus(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	req, _ := structpb.NewStruct(map[string]any{"jobId": "job-unknown"})
	_, err = client.GetJobStatus(ctx, req)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
