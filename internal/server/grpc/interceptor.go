package grpc

import (
	"context"
	"runtime/debug"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protectedMethods require a valid access token.
var protectedMethods = map[string]struct{}{
	rpc.FullMethod(rpc.MethodLogoutUser): {},
	rpc.FullMethod(rpc.MethodWhoAmI):     {},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := protectedMethods[info.FullMethod]; !ok {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	identity, err := s.gate.Authorize(header)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(auth.WithIdentity(ctx, identity), req)
}

func (s *GRPCServer) recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
			err = status.Error(codes.Internal, common.ErrInternal.Error())
		}
	}()
	return handler(ctx, req)
}
