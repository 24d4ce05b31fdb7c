package grpc

import (
	"errors"

	"github.com/dmitrijs2005/blogauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrCredentialAlreadyExists, codes.AlreadyExists},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrUserNotFound, codes.NotFound},
	{common.ErrAccessTokenRequired, codes.Unauthenticated},
	{common.ErrAccessTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrResetTokenExpired, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidRefreshToken, codes.Unauthenticated},
	{common.ErrInvalidResetToken, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrEmailDeliveryFailed, codes.Internal},
	{common.ErrInvalidInput, codes.InvalidArgument},
	{common.ErrTooManyAttempts, codes.ResourceExhausted},
}

// toStatus maps a domain error to a gRPC status. The message is the
// sentinel's text so clients can match it; anything unknown becomes a bare
// Internal error.
func toStatus(err error) error {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, e.err.Error())
		}
	}
	return status.Error(codes.Internal, common.ErrInternal.Error())
}

func isInternal(err error) bool {
	return status.Code(err) == codes.Internal
}
