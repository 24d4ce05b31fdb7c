package grpc

import (
	"context"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/models"
	"github.com/dmitrijs2005/blogauth/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *rpc.RegisterUserRequest) (*rpc.RegisterUserResponse, error) {
	profile, err := s.sessions.RegisterUser(ctx, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Image:    req.Image,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.fail(ctx, "RegisterUser", err)
	}
	return &rpc.RegisterUserResponse{User: toProfile(profile)}, nil
}

func (s *GRPCServer) AuthenticateUser(ctx context.Context, req *rpc.AuthenticateUserRequest) (*rpc.AuthenticateUserResponse, error) {
	res, err := s.sessions.AuthenticateUser(ctx, services.LoginInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return nil, s.fail(ctx, "AuthenticateUser", err)
	}
	return &rpc.AuthenticateUserResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         toProfile(&res.Profile),
	}, nil
}

func (s *GRPCServer) RefreshAccessToken(ctx context.Context, req *rpc.RefreshAccessTokenRequest) (*rpc.RefreshAccessTokenResponse, error) {
	token, err := s.sessions.RefreshAccessToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.fail(ctx, "RefreshAccessToken", err)
	}
	return &rpc.RefreshAccessTokenResponse{AccessToken: token}, nil
}

func (s *GRPCServer) LogoutUser(ctx context.Context, req *rpc.LogoutUserRequest) (*rpc.LogoutUserResponse, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrAccessTokenRequired)
	}
	if err := s.sessions.LogoutUser(ctx, id.UserID); err != nil {
		return nil, s.fail(ctx, "LogoutUser", err)
	}
	return &rpc.LogoutUserResponse{}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, req *rpc.WhoAmIRequest) (*rpc.WhoAmIResponse, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, toStatus(common.ErrAccessTokenRequired)
	}
	profile, err := s.sessions.Profile(ctx, id.UserID)
	if err != nil {
		return nil, s.fail(ctx, "WhoAmI", err)
	}
	return &rpc.WhoAmIResponse{User: toProfile(profile)}, nil
}

func (s *GRPCServer) CreatePasswordResetToken(ctx context.Context, req *rpc.CreatePasswordResetTokenRequest) (*rpc.CreatePasswordResetTokenResponse, error) {
	if err := s.sessions.CreatePasswordResetToken(ctx, req.Email); err != nil {
		return nil, s.fail(ctx, "CreatePasswordResetToken", err)
	}
	return &rpc.CreatePasswordResetTokenResponse{}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.ResetPasswordResponse, error) {
	if err := s.sessions.ResetPassword(ctx, req.Token, req.Password); err != nil {
		return nil, s.fail(ctx, "ResetPassword", err)
	}
	return &rpc.ResetPasswordResponse{}, nil
}

// fail logs err and converts it to a status. Only unexpected errors are
// logged at error level.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)
	if isInternal(st) {
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "method", method, "error", err)
	}
	return st
}

func toProfile(p *models.Profile) rpc.Profile {
	return rpc.Profile{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Image:  p.Image,
		Status: string(p.Status),
	}
}
