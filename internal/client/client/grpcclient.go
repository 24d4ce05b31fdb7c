package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authAPI is the part of *rpc.AuthServiceClient used here.
type authAPI interface {
	Ping(ctx context.Context, in *rpc.PingRequest, opts ...grpc.CallOption) (*rpc.PingResponse, error)
	RegisterUser(ctx context.Context, in *rpc.RegisterUserRequest, opts ...grpc.CallOption) (*rpc.RegisterUserResponse, error)
	AuthenticateUser(ctx context.Context, in *rpc.AuthenticateUserRequest, opts ...grpc.CallOption) (*rpc.AuthenticateUserResponse, error)
	RefreshAccessToken(ctx context.Context, in *rpc.RefreshAccessTokenRequest, opts ...grpc.CallOption) (*rpc.RefreshAccessTokenResponse, error)
	LogoutUser(ctx context.Context, in *rpc.LogoutUserRequest, opts ...grpc.CallOption) (*rpc.LogoutUserResponse, error)
	WhoAmI(ctx context.Context, in *rpc.WhoAmIRequest, opts ...grpc.CallOption) (*rpc.WhoAmIResponse, error)
	CreatePasswordResetToken(ctx context.Context, in *rpc.CreatePasswordResetTokenRequest, opts ...grpc.CallOption) (*rpc.CreatePasswordResetTokenResponse, error)
	ResetPassword(ctx context.Context, in *rpc.ResetPasswordRequest, opts ...grpc.CallOption) (*rpc.ResetPasswordResponse, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      authAPI

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	if token != "" {
		md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.Tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrAccessTokenExpired.Error() {
		return err
	}
	if refresh == "" || method == rpc.FullMethod(rpc.MethodRefreshAccessToken) {
		return err
	}

	resp, rerr := s.client.RefreshAccessToken(ctx, &rpc.RefreshAccessTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return rerr
	}

	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Tokens returns the current access and refresh tokens.
func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// SetTokens restores a previously saved session.
func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

type RegisterRequest struct {
	Name     string
	Email    string
	Phone    string
	Image    string
	Password []byte
}

func (s *GRPCClient) Register(ctx context.Context, r RegisterRequest) (*rpc.Profile, error) {
	resp, err := s.client.RegisterUser(ctx, &rpc.RegisterUserRequest{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Image:    r.Image,
		Password: string(r.Password),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.User, nil
}

// Login signs in by email or, when email is empty, by phone, and keeps the
// issued tokens.
func (s *GRPCClient) Login(ctx context.Context, email, phone string, password []byte) (*rpc.Profile, error) {
	resp, err := s.client.AuthenticateUser(ctx, &rpc.AuthenticateUserRequest{
		Email:    email,
		Phone:    phone,
		Password: string(password),
	})
	if err != nil {
		return nil, mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return &resp.User, nil
}

// Refresh exchanges the stored refresh token for a new access token.
func (s *GRPCClient) Refresh(ctx context.Context) error {
	_, refresh := s.Tokens()
	if refresh == "" {
		return common.ErrInvalidRefreshToken
	}
	resp, err := s.client.RefreshAccessToken(ctx, &rpc.RefreshAccessTokenRequest{RefreshToken: refresh})
	if err != nil {
		return mapError(err)
	}
	s.mu.Lock()
	s.accessToken = resp.AccessToken
	s.mu.Unlock()
	return nil
}

// Logout revokes the session on the server and forgets the tokens.
func (s *GRPCClient) Logout(ctx context.Context) error {
	if _, err := s.client.LogoutUser(ctx, &rpc.LogoutUserRequest{}); err != nil {
		return mapError(err)
	}
	s.SetTokens("", "")
	return nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*rpc.Profile, error) {
	resp, err := s.client.WhoAmI(ctx, &rpc.WhoAmIRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.client.CreatePasswordResetToken(ctx, &rpc.CreatePasswordResetTokenRequest{Email: email}); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCClient) ResetPassword(ctx context.Context, token string, password []byte) error {
	if _, err := s.client.ResetPassword(ctx, &rpc.ResetPasswordRequest{Token: token, Password: string(password)}); err != nil {
		return mapError(err)
	}
	return nil
}

var knownErrors = []error{
	common.ErrInvalidInput,
	common.ErrCredentialAlreadyExists,
	common.ErrInvalidCredentials,
	common.ErrUserNotFound,
	common.ErrEmailDeliveryFailed,
	common.ErrTooManyAttempts,
	common.ErrAccessTokenRequired,
	common.ErrAccessTokenExpired,
	common.ErrRefreshTokenExpired,
	common.ErrInvalidRefreshToken,
	common.ErrResetTokenExpired,
	common.ErrInvalidResetToken,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrInternal,
}

// mapError turns a gRPC status back into the sentinel error the server
// reported.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}
	for _, known := range knownErrors {
		if st.Message() == known.Error() {
			return known
		}
	}
	return fmt.Errorf("rpc error: %s: %s", st.Code(), st.Message())
}
