package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blogauth/internal/client/client"
	"github.com/dmitrijs2005/blogauth/internal/common"
	"github.com/dmitrijs2005/blogauth/internal/rpc"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (a *App) printProfile(p *rpc.Profile) {
	fmt.Fprintf(a.out, "id:     %d\n", p.ID)
	if p.Name != "" {
		fmt.Fprintf(a.out, "name:   %s\n", p.Name)
	}
	if p.Email != "" {
		fmt.Fprintf(a.out, "email:  %s\n", p.Email)
	}
	if p.Phone != "" {
		fmt.Fprintf(a.out, "phone:  %s\n", p.Phone)
	}
	fmt.Fprintf(a.out, "status: %s\n", p.Status)
}

// readNewPassword asks for a password twice.
func (a *App) readNewPassword() ([]byte, error) {
	pw, err := getPassword("New password", a.out)
	if err != nil {
		return nil, err
	}
	again, err := getPassword("Repeat password", a.out)
	if err != nil {
		common.WipeByteArray(pw)
		return nil, err
	}
	defer common.WipeByteArray(again)

	if string(pw) != string(again) {
		common.WipeByteArray(pw)
		return nil, errPasswordMismatch
	}
	return pw, nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	image := fs.String("image", "", "avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" && *phone == "" {
		v, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.api.Register(ctx, client.RegisterRequest{
		Name:     *name,
		Email:    *email,
		Phone:    *phone,
		Image:    *image,
		Password: password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. Sign in with 'authctl login'.")
	a.printProfile(p)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" && *phone == "" {
		v, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}

	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.api.Login(ctx, *email, *phone, password)
	if err != nil {
		return err
	}

	a.signedInAs = *email
	if a.signedInAs == "" {
		a.signedInAs = *phone
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", a.signedInAs)
	a.printProfile(p)
	return nil
}

func (a *App) refresh(ctx context.Context, _ []string) error {
	if err := a.api.Refresh(ctx); err != nil {
		if isSessionGone(err) {
			a.api.SetTokens("", "")
		}
		return err
	}
	fmt.Fprintln(a.out, "Access token refreshed.")
	return nil
}

// logout forgets the local session even when the server call fails.
func (a *App) logout(ctx context.Context, _ []string) error {
	if _, refresh := a.api.Tokens(); refresh == "" {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}

	err := a.api.Logout(ctx)
	a.api.SetTokens("", "")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	p, err := a.api.WhoAmI(ctx)
	if err != nil {
		if isSessionGone(err) {
			a.api.SetTokens("", "")
		}
		return err
	}
	a.printProfile(p)
	return nil
}

func (a *App) ping(ctx context.Context, _ []string) error {
	if err := a.api.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is reachable\n", a.config.ServerEndpointAddr)
	return nil
}

func (a *App) forgot(ctx context.Context, args []string) error {
	fs := a.flagSet("forgot")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		v, err := getSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
		*email = v
	}

	if err := a.api.ForgotPassword(ctx, *email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a reset link has been sent.")
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	fs := a.flagSet("reset")
	token := fs.String("token", "", "reset token from the email link")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *token == "" {
		v, err := getSimpleText(a.reader, "Enter reset token", a.out)
		if err != nil {
			return err
		}
		*token = v
	}

	password, err := a.readNewPassword()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.ResetPassword(ctx, *token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated. Sign in with the new password.")
	return nil
}

// isSessionGone reports errors after which the saved refresh token is
// useless.
func isSessionGone(err error) bool {
	return errors.Is(err, common.ErrRefreshTokenExpired) ||
		errors.Is(err, common.ErrInvalidRefreshToken)
}
