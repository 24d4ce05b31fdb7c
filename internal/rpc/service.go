package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "blogauth.v1.AuthService"

const (
	MethodPing                     = "Ping"
	MethodRegisterUser             = "RegisterUser"
	MethodAuthenticateUser         = "AuthenticateUser"
	MethodRefreshAccessToken       = "RefreshAccessToken"
	MethodLogoutUser               = "LogoutUser"
	MethodWhoAmI                   = "WhoAmI"
	MethodCreatePasswordResetToken = "CreatePasswordResetToken"
	MethodResetPassword            = "ResetPassword"
)

// FullMethod returns the gRPC path of method, e.g.
// "/blogauth.v1.AuthService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AuthServiceServer is implemented by the server side of the AuthService.
type AuthServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	AuthenticateUser(context.Context, *AuthenticateUserRequest) (*AuthenticateUserResponse, error)
	RefreshAccessToken(context.Context, *RefreshAccessTokenRequest) (*RefreshAccessTokenResponse, error)
	LogoutUser(context.Context, *LogoutUserRequest) (*LogoutUserResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error)
	CreatePasswordResetToken(context.Context, *CreatePasswordResetTokenRequest) (*CreatePasswordResetTokenResponse, error)
	ResetPassword(context.Context, *ResetPasswordRequest) (*ResetPasswordResponse, error)
}

// ServiceDesc describes the AuthService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, AuthServiceServer.Ping),
		unary(MethodRegisterUser, AuthServiceServer.RegisterUser),
		unary(MethodAuthenticateUser, AuthServiceServer.AuthenticateUser),
		unary(MethodRefreshAccessToken, AuthServiceServer.RefreshAccessToken),
		unary(MethodLogoutUser, AuthServiceServer.LogoutUser),
		unary(MethodWhoAmI, AuthServiceServer.WhoAmI),
		unary(MethodCreatePasswordResetToken, AuthServiceServer.CreatePasswordResetToken),
		unary(MethodResetPassword, AuthServiceServer.ResetPassword),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "blogauth/v1/auth.json",
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(AuthServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AuthServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AuthServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// AuthServiceClient is the client side of the AuthService.
type AuthServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthServiceClient(cc grpc.ClientConnInterface) *AuthServiceClient {
	return &AuthServiceClient{cc: cc}
}

func (c *AuthServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *AuthServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *AuthServiceClient) AuthenticateUser(ctx context.Context, in *AuthenticateUserRequest, opts ...grpc.CallOption) (*AuthenticateUserResponse, error) {
	return invoke[AuthenticateUserResponse](ctx, c.cc, MethodAuthenticateUser, in, opts)
}

func (c *AuthServiceClient) RefreshAccessToken(ctx context.Context, in *RefreshAccessTokenRequest, opts ...grpc.CallOption) (*RefreshAccessTokenResponse, error) {
	return invoke[RefreshAccessTokenResponse](ctx, c.cc, MethodRefreshAccessToken, in, opts)
}

func (c *AuthServiceClient) LogoutUser(ctx context.Context, in *LogoutUserRequest, opts ...grpc.CallOption) (*LogoutUserResponse, error) {
	return invoke[LogoutUserResponse](ctx, c.cc, MethodLogoutUser, in, opts)
}

func (c *AuthServiceClient) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	return invoke[WhoAmIResponse](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *AuthServiceClient) CreatePasswordResetToken(ctx context.Context, in *CreatePasswordResetTokenRequest, opts ...grpc.CallOption) (*CreatePasswordResetTokenResponse, error) {
	return invoke[CreatePasswordResetTokenResponse](ctx, c.cc, MethodCreatePasswordResetToken, in, opts)
}

func (c *AuthServiceClient) ResetPassword(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*ResetPasswordResponse, error) {
	return invoke[ResetPasswordResponse](ctx, c.cc, MethodResetPassword, in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
