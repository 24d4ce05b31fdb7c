// Package client contains the client-side building blocks of the authctl
// CLI.
//
// GRPCClient talks to the AuthService over gRPC. It attaches the access
// token to every call and, when the server answers that the access token
// has expired, exchanges the refresh token for a new one and retries the
// call once. Server errors come back as the sentinel errors of
// internal/common, so callers match them with errors.Is; an unreachable
// server is reported as ErrUnavailable.
//
// InitDatabase opens the local SQLite database and applies the embedded
// goose migrations.
package client
