package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/pterm/pterm"
)

var errUsageProfile = errors.New("usage: profile [name <display name> | currency <code>]")

// Profile shows the signed-in user's profile, or changes one field of it.
func (a *App) Profile(ctx context.Context, args []string) error {
	u, err := a.users.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if u == nil {
			fmt.Fprintln(a.out, "No profile yet. Set one with 'profile name <display name>'.")
			return nil
		}
		renderTable(a.out, pterm.TableData{
			{"Email", "Name", "Currency", ""},
			{u.Email, u.DisplayName, u.Currency, syncMark(u.Synced)},
		})
		return nil
	}

	if len(args) < 2 {
		return errUsageProfile
	}
	value := strings.Join(args[1:], " ")

	insert := u == nil
	if insert {
		info, _ := a.session.Current()
		u = &models.User{ID: info.UserID, Email: info.Username}
	}
	switch strings.ToLower(args[0]) {
	case "name":
		u.DisplayName = value
	case "currency":
		u.Currency = strings.ToUpper(value)
	default:
		return errUsageProfile
	}

	if insert {
		err = a.users.InsertUser(ctx, *u)
	} else {
		err = a.users.UpdateUser(ctx, *u)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, green("Profile saved"))
	return nil
}

// Status prints the connection mode and how much local data still waits
// for the server.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintln(a.out, "Mode:", modeColor(a.mode())(string(a.mode())))

	info, ok := a.session.Current()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	who := info.Username
	if info.Offline {
		who += " (offline sign-in)"
	}
	fmt.Fprintln(a.out, "User:", who)

	unsynced, err := a.sync.Unsynced(ctx, info.UserID)
	if err != nil {
		return err
	}
	queued, err := a.sync.Queued(ctx, info.UserID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Unsynced records: %d, queued changes: %d\n", unsynced, queued)
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if !a.conn.IsCurrentlyOnline() {
		return errors.New("cannot sync while offline")
	}
	if info, _ := a.session.Current(); info.Offline {
		return errors.New("signed in offline, run 'login' again to sync")
	}
	n, err := a.sync.Sync(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.out, "Nothing to sync")
		return nil
	}
	fmt.Fprintf(a.out, "%s %d change(s)\n", green("Synced"), n)
	return nil
}
