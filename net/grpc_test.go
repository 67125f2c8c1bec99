package net

import (
	"context"
	"testing"

	"github.com/golang-devkit/logconv/crypto/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type pingRequest struct {
	RequestId string
	Text      string
}

func (p *pingRequest) GetRequestId() string { return p.RequestId }

var pingInfo = &grpc.UnaryServerInfo{FullMethod: "/devkit.Ping/Ping"}

func TestMetadataFromContext(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.Pairs("authorization", "Bearer tkn", "x-api-request-id", "md-1"))

	md, token, reqID := metadataFromContext(ctx, nil)
	assert.Equal(t, "tkn", token)
	assert.Equal(t, "md-1", reqID)
	assert.Equal(t, []string{"Bearer tkn"}, md.Get("authorization"))

	_, _, reqID = metadataFromContext(ctx, &pingRequest{RequestId: "body-1"})
	assert.Equal(t, "body-1", reqID)

	md, token, reqID = metadataFromContext(context.Background(), nil)
	assert.Empty(t, token)
	assert.Contains(t, reqID, "SERVER-GEN-")
	assert.Equal(t, []string{reqID}, md.Get("x-api-request-id"))
}

func TestUnaryServerLoggingInterceptor(t *testing.T) {
	logs := observeLogs(t)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer tkn"))

	resp, err := UnaryServerLoggingInterceptor()(ctx, &pingRequest{RequestId: "r-9", Text: "hello"}, pingInfo,
		func(ctx context.Context, req any) (any, error) {
			return "pong", nil
		})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp)

	completed := logs.FilterMessageSnippet("gRPC request completed").All()
	require.Len(t, completed, 1)
	assert.Contains(t, completed[0].Message, `request_id="r-9"`)
	assert.Contains(t, completed[0].Message, `status="OK"`)

	started := logs.FilterMessage("gRPC request started").All()
	require.Len(t, started, 1)
	assert.Equal(t, `requestid="r-9", text="hello"`, started[0].ContextMap()["request"])
}

func TestUnaryServerAuthInterceptor(t *testing.T) {
	observeLogs(t)
	interceptor := UnaryServerAuthInterceptor(&fakeValidator{valid: "good"})
	handler := func(ctx context.Context, req any) (any, error) {
		return jwt.UserIdFromContext(ctx), nil
	}
	call := func(md metadata.MD) (any, error) {
		ctx := context.Background()
		if md != nil {
			ctx = metadata.NewIncomingContext(ctx, md)
		}
		return interceptor(ctx, &pingRequest{}, pingInfo, handler)
	}

	_, err := call(nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "Missing credentials", status.Convert(err).Message())

	_, err = call(metadata.Pairs("authorization", "Bearer forged"))
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.Equal(t, "Invalid token", status.Convert(err).Message())

	resp, err := call(metadata.Pairs("authorization", "Bearer good"))
	require.NoError(t, err)
	assert.Equal(t, "u-42", resp)
}
