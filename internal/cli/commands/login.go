package commands

import (
	"context"
	"fmt"

	"LostFound/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if _, err := newRemote(cfg).Login(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored auth token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := newRemote(cfg).Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the current account" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	acc, err := newRemote(cfg).CurrentUser(ctx)
	if err != nil {
		return err
	}
	role := "user"
	if acc.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(Out, "Logged in as %s <%s> id=%d role=%s verification=%s\n",
		acc.Name, acc.Email, acc.ID, role, acc.VerificationStatus)
	return nil
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(statusCmd{})
}
