package commands

import (
	"context"
	"fmt"

	"LostFound/internal/config"
)

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Register a new account and store auth token" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	acc, err := newRemote(cfg).Register(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered %s (id=%d, verification=%s)\n", acc.Email, acc.ID, acc.VerificationStatus)
	return nil
}

func init() { RegisterCmd(registerCmd{}) }
