package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/blogauth/internal/client/client"
	"github.com/dmitrijs2005/blogauth/internal/client/config"
	"github.com/dmitrijs2005/blogauth/internal/client/repositories/session"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
)

// AuthClient is the server API used by the commands. *client.GRPCClient
// implements it.
type AuthClient interface {
	Register(ctx context.Context, r client.RegisterRequest) (*rpc.Profile, error)
	Login(ctx context.Context, email, phone string, password []byte) (*rpc.Profile, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*rpc.Profile, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, password []byte) error
	Ping(ctx context.Context) error
	Tokens() (string, string)
	SetTokens(access, refresh string)
	Close() error
}

// ErrUnknownCommand is returned for a missing or unrecognized command.
var ErrUnknownCommand = errors.New("unknown command")

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {"register -email E | -phone P [-name N] [-image URL]", (*App).register},
	"login":    {"login -email E | -phone P", (*App).login},
	"refresh":  {"refresh", (*App).refresh},
	"logout":   {"logout", (*App).logout},
	"whoami":   {"whoami", (*App).whoami},
	"forgot":   {"forgot -email E", (*App).forgot},
	"reset":    {"reset [-token T]", (*App).reset},
	"ping":     {"ping", (*App).ping},
}

var commandOrder = []string{"register", "login", "refresh", "logout", "whoami", "forgot", "reset", "ping"}

type App struct {
	config   *config.Config
	api      AuthClient
	sessions session.Repository
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer

	// signedInAs is the identifier of the signed-in user, for display.
	signedInAs string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:   c,
		api:      api,
		sessions: session.NewSQLiteRepository(db),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		closers:  []io.Closer{api, db},
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Run executes the command named by args[0]. The saved session is loaded
// before the command and written back after it, so a silently refreshed
// access token is kept for the next run.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "help" {
		a.usage()
		if len(args) == 0 {
			return ErrUnknownCommand
		}
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	saved, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if saved.Endpoint == a.config.ServerEndpointAddr {
		a.api.SetTokens(saved.AccessToken, saved.RefreshToken)
		a.signedInAs = saved.Login
	}

	if a.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RequestTimeout)
		defer cancel()
	}

	runErr := cmd.run(a, ctx, args[1:])

	if err := a.saveSession(context.WithoutCancel(ctx), saved); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// saveSession writes the current tokens back. Ending up without a refresh
// token clears the stored session only when it belongs to this endpoint.
func (a *App) saveSession(ctx context.Context, saved session.Session) error {
	access, refresh := a.api.Tokens()
	if refresh == "" {
		if saved.SignedIn() && saved.Endpoint != a.config.ServerEndpointAddr {
			return nil
		}
		return a.sessions.Clear(ctx)
	}
	return a.sessions.Save(ctx, session.Session{
		Endpoint:     a.config.ServerEndpointAddr,
		Login:        a.signedInAs,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: authctl [-a addr] [-f db] [-t timeout] <command> [flags]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintln(a.out, "  "+commands[name].usage)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}
