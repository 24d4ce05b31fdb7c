// Package rpc declares the AuthService wire contract shared by the gRPC
// server and its clients. Messages travel as JSON through the codec
// registered in codec.go.
package rpc

type Profile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Image  string `json:"image,omitempty"`
	Status string `json:"status"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Image    string `json:"image,omitempty"`
	Password string `json:"password"`
}

type RegisterUserResponse struct {
	User Profile `json:"user"`
}

type AuthenticateUserRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type AuthenticateUserResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         Profile `json:"user"`
}

type RefreshAccessTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshAccessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type LogoutUserRequest struct{}

type LogoutUserResponse struct{}

type WhoAmIRequest struct{}

type WhoAmIResponse struct {
	User Profile `json:"user"`
}

type CreatePasswordResetTokenRequest struct {
	Email string `json:"email"`
}

type CreatePasswordResetTokenResponse struct{}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ResetPasswordResponse struct{}
