// Package grpc exposes the session service over gRPC using the hand-declared
// AuthService from internal/rpc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
	"github.com/dmitrijs2005/blogauth/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SessionAuthority is the part of services.SessionService the handlers use.
type SessionAuthority interface {
	RegisterUser(ctx context.Context, in services.RegisterInput) (*models.Profile, error)
	AuthenticateUser(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
	LogoutUser(ctx context.Context, userID int64) error
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	CreatePasswordResetToken(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Profile(ctx context.Context, userID int64) (*models.Profile, error)
}

// Authorizer validates the authorization value of a request.
type Authorizer interface {
	Authorize(header string) (auth.Identity, error)
}

type GRPCServer struct {
	address  string
	sessions SessionAuthority
	gate     Authorizer
	logger   logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, sessions SessionAuthority, gate Authorizer) *GRPCServer {
	return &GRPCServer{
		address:  address,
		logger:   l.With("module", "grpc_server"),
		sessions: sessions,
		gate:     gate,
	}
}

// newServer builds a grpc.Server with the interceptors, the AuthService and
// the standard health service registered.
func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.accessTokenInterceptor))
	rpc.RegisterAuthServiceServer(srv, s)

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv, healthSrv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv, healthSrv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		healthSrv.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	<-stopped
	return nil
}
