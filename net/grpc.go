package net

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// Metadata keys are normalized to lower case.
const (
	mdRequestID     = "x-api-request-id"
	mdAuthorization = "authorization"
)

func StreamServerLoggingInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		_, _, reqID := metadataFromContext(ss.Context(), nil)
		entry := getLogEntry().With(
			zap.String("method", info.FullMethod),
			zap.String(logger.KeyNetRequestID, reqID),
		)
		start := time.Now()
		entry.Debug("gRPC stream started")
		err := handler(srv, ss)
		entry.Info(convention.LogMapping("gRPC stream completed", convention.NewMapping(
			convention.F("method", info.FullMethod),
			convention.F(logger.KeyNetStatus, status.Code(err).String()),
			convention.F(logger.KeyNetDuration, time.Since(start)),
		)), zap.Error(err))
		return err
	}
}

// UnaryServerLoggingInterceptor attaches a request scoped logger to the
// context and logs one line at start and one at completion.
func UnaryServerLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

		md, _, reqID := metadataFromContext(ctx, req)
		startTime := time.Now()

		reqLogger := getLogEntry().With(
			zap.String("method", info.FullMethod),
			zap.String(logger.KeyNetRequestID, reqID),
			logger.Formatted("metadata", loggableMetadata(md)),
		)
		ctx = setLoggerToContext(ctx, reqLogger)

		if msg, ok := req.(proto.Message); ok {
			if b, err := proto.Marshal(msg); err != nil {
				reqLogger = reqLogger.With(zap.NamedError("marshal_error", err))
			} else {
				sum := sha256.Sum256(b)
				reqLogger = reqLogger.With(zap.String("sum", hex.EncodeToString(sum[:])))
			}
		}

		reqLogger.Debug("gRPC request started", logger.Formatted(logger.KeyNetRequestPayload, req))

		resp, err := handler(ctx, req)

		reqLogger.Debug("gRPC response", logger.Formatted(logger.KeyNetResponsePayload, resp))
		reqLogger.Info(convention.LogMapping("gRPC request completed", convention.NewMapping(
			convention.F("method", info.FullMethod),
			convention.F(logger.KeyNetRequestID, reqID),
			convention.F(logger.KeyNetStatus, status.Code(err).String()),
			convention.F(logger.KeyNetDuration, time.Since(startTime)),
		)), zap.Error(err))

		return resp, err
	}
}

// UnaryServerAuthInterceptor validates the bearer token carried in the
// authorization metadata. Calls without one are rejected.
func UnaryServerAuthInterceptor(v TokenValidator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		_, token, _ := metadataFromContext(ctx, req)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "Missing credentials")
		}
		claims, err := v.Validate(token)
		if err != nil {
			getLoggerFromContext(ctx).Debug("authorization failed",
				zap.String("method", info.FullMethod),
				zap.Error(err))
			return nil, status.Error(codes.Unauthenticated, "Invalid token")
		}
		return handler(claims.ApplyContext(ctx), req)
	}
}

func loggableMetadata(md metadata.MD) metadata.MD {
	out := md.Copy()
	if len(out.Get(mdAuthorization)) > 0 {
		out.Set(mdAuthorization, "***")
	}
	return out
}

func metadataFromContext(ctx context.Context, req any) (metadata.MD, string, string) {
	var (
		md                metadata.MD
		reqID, jwtAuthStr string
	)
	if fromInc, ok := metadata.FromIncomingContext(ctx); ok && fromInc != nil {
		md = fromInc.Copy()
	}
	if md != nil {
		if vals := md.Get(mdRequestID); len(vals) > 0 {
			reqID = vals[0]
		}
		if auth := md.Get(mdAuthorization); len(auth) > 0 {
			if token, ok := bearerToken(auth[0]); ok {
				jwtAuthStr = token
			}
		}
	}
	// Request messages may carry their own id
	if r, ok := req.(interface{ GetReqId() string }); ok && r != nil {
		reqID = r.GetReqId()
	}
	if r, ok := req.(interface{ GetRequestId() string }); ok && r != nil {
		reqID = r.GetRequestId()
	}
	if reqID == "" {
		reqID = "SERVER-GEN-" + uuid.NewString()
	}
	if md == nil {
		md = metadata.Pairs(mdRequestID, reqID)
	}
	return md, jwtAuthStr, reqID
}
