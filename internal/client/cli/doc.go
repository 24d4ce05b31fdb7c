// Package cli implements authctl, a command-line client for the auth
// service. Each invocation runs one command; the session tokens survive
// between invocations in a local SQLite database.
//
//	authctl [-a addr] [-f db] [-t timeout] <command> [flags]
//
// Commands: register, login, refresh, logout, whoami, forgot, reset.
// Passwords are always read from the terminal without echo.
package cli
