package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"LostFound/internal/config"
	"LostFound/internal/model"
)

func printClaim(w io.Writer, c *model.Claim) {
	who := fmt.Sprintf("user#%d", c.ClaimantID)
	if c.Claimant != nil {
		who = c.Claimant.Name + " <" + c.Claimant.Email + ">"
	}
	fmt.Fprintf(w, "- %s  %s  by %s", c.ID, c.Status, who)
	if c.Message != "" {
		fmt.Fprintf(w, "  %q", c.Message)
	}
	fmt.Fprintln(w)
}

type claimCmd struct{}

func (claimCmd) Name() string        { return "claim" }
func (claimCmd) Description() string { return "Подать заявку на чужое объявление" }
func (claimCmd) Usage() string       { return "claim <lost|found> <id> [message]" }

func (claimCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	c, err := newRemote(cfg).Claim(ctx, kind, args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Claim submitted")
	printClaim(Out, c)
	return nil
}

type claimsCmd struct{}

func (claimsCmd) Name() string        { return "claims" }
func (claimsCmd) Description() string { return "Заявки на своё объявление" }
func (claimsCmd) Usage() string       { return "claims <lost|found> <id>" }

func (claimsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	list, err := newRemote(cfg).Claims(ctx, kind, args[1])
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Заявок нет")
		return nil
	}
	for i := range list {
		printClaim(Out, &list[i])
	}
	return nil
}

type decideCmd struct{}

func (decideCmd) Name() string        { return "decide" }
func (decideCmd) Description() string { return "Одобрить или отклонить заявку" }
func (decideCmd) Usage() string {
	return "decide <lost|found> <id> <claimId> <approved|denied>"
}

func (decideCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 4 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	status := strings.ToLower(args[3])
	if !model.ValidDecision(status) {
		return ErrUsage
	}
	c, err := newRemote(cfg).Decide(ctx, kind, args[1], args[2], status)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Claim %s\n", c.Status)
	return nil
}

func init() {
	RegisterCmd(claimCmd{})
	RegisterCmd(claimsCmd{})
	RegisterCmd(decideCmd{})
}
