package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type loggingInterceptor struct {
	logger *zap.Logger
}

func NewLoggingInterceptor(logger *zap.Logger) *loggingInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &loggingInterceptor{
		logger: logger.Named("grpc"),
	}
}

func (i *loggingInterceptor) Unary(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	fields := []zap.Field{
		zap.String("Procedure", info.FullMethod),
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		fields = append(fields, zap.String("Addr", p.Addr.String()))
	}
	i.logger.Info("Request", fields...)

	start := time.Now()
	res, err := handler(ctx, req)
	if err != nil {
		i.logger.Info(
			"Error",
			zap.String("Procedure", info.FullMethod),
			zap.String("Code", status.Code(err).String()),
			zap.Error(err),
		)
		return res, err
	}
	i.logger.Debug("Done", zap.String("Procedure", info.FullMethod), zap.Duration("Elapsed", time.Since(start)))
	return res, nil
}
