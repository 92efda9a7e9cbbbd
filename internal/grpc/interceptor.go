package grpcserver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"reliefCoordination/internal/metrics"
)

const requestIDHeader = "x-request-id"

// requestID reuses the caller's x-request-id or mints a new one.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(requestIDHeader); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return uuid.NewString()
}

// NewUnaryLoggingInterceptor logs every call with its method, status code,
// latency and request id, and records the latency histogram.
func NewUnaryLoggingInterceptor(log *zap.Logger, m *metrics.Metrics) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		id := requestID(ctx)
		if grpc.ServerTransportStreamFromContext(ctx) != nil {
			if err := grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id)); err != nil {
				log.Warn("set request id header", zap.String("request_id", id), zap.Error(err))
			}
		}

		resp, err := handler(ctx, req)

		code := status.Code(err)
		elapsed := time.Since(start)
		m.ObserveRPC(info.FullMethod, code.String(), elapsed)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", elapsed),
			zap.String("request_id", id),
		}
		switch code {
		case codes.OK:
			log.Debug("rpc", fields...)
		case codes.Internal, codes.Unknown:
			log.Error("rpc failed", append(fields, zap.Error(err))...)
		default:
			log.Info("rpc rejected", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}
