package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/common"
)

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "-Enter display name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out, err := a.auth.SignUp(ctx, email, password, name)
	if err != nil {
		return fmt.Errorf("registration unsuccessful: %w", err)
	}
	fmt.Fprintln(a.out, green("Registration successful"))
	if !out.ProfileSaved {
		fmt.Fprintln(a.out, yellow("Your profile could not be saved, use 'profile' to set it up."))
	}
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out, err := a.auth.SignIn(ctx, email, password)
	switch {
	case errors.Is(err, client.ErrLocalDataNotAvailable):
		return errors.New("server unavailable and this account never signed in on this device")
	case err != nil:
		return fmt.Errorf("login unsuccessful: %w", err)
	}

	if out.Offline {
		fmt.Fprintln(a.out, yellow("Server unavailable, signed in offline"))
		return nil
	}
	fmt.Fprintln(a.out, green("Login successful"))
	return nil
}

// LoginWithGoogle takes a Google ID token, obtained out of band, either as
// the argument or from the prompt.
func (a *App) LoginWithGoogle(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		t, err := GetSimpleText(a.reader, "-Paste Google ID token", a.out)
		if err != nil {
			return err
		}
		token = t
	}
	if token == "" {
		return errors.New("empty token")
	}

	out, err := a.auth.SignInWithGoogle(ctx, token)
	if err != nil {
		return fmt.Errorf("google login unsuccessful: %w", err)
	}
	if out.State == services.StateAuthenticatedNewUser {
		fmt.Fprintln(a.out, green("Welcome! Your account has been created."))
		if !out.ProfileSaved {
			fmt.Fprintln(a.out, yellow("Your profile could not be saved, use 'profile' to set it up."))
		}
		return nil
	}
	fmt.Fprintln(a.out, green("Login successful"))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
