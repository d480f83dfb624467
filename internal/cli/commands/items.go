package commands

import (
	"context"
	"fmt"
	"io"

	"LostFound/internal/cli/service"
	"LostFound/internal/config"
	"LostFound/internal/model"
)

func printItem(w io.Writer, it *model.Item) {
	owner := fmt.Sprintf("user#%d", it.UserID)
	if it.User != nil {
		owner = it.User.Name
	}
	fmt.Fprintf(w, "- %s  [%s] %q  category=%s  location=%s  status=%s  owner=%s\n",
		it.ID, it.Kind, it.Title, it.Category, it.Location, it.Status, owner)
}

func printMatches(w io.Writer, res *service.ItemWithMatches) {
	printItem(w, &res.Item)
	if len(res.Matches) == 0 {
		fmt.Fprintln(w, "Совпадений нет")
		return
	}
	fmt.Fprintf(w, "Возможные совпадения (%d):\n", len(res.Matches))
	for i := range res.Matches {
		printItem(w, &res.Matches[i])
	}
}

type itemsCmd struct{}

func (itemsCmd) Name() string        { return "items" }
func (itemsCmd) Description() string { return "Показать все объявления вида lost или found" }
func (itemsCmd) Usage() string       { return "items <lost|found>" }

func (itemsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	list, err := newRemote(cfg).List(ctx, kind)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет объявлений")
		return nil
	}
	for i := range list {
		printItem(Out, &list[i])
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

type itemGetCmd struct{}

func (itemGetCmd) Name() string        { return "item-get" }
func (itemGetCmd) Description() string { return "Показать одно объявление" }
func (itemGetCmd) Usage() string       { return "item-get <lost|found> <id>" }

func (itemGetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	it, err := newRemote(cfg).Get(ctx, kind, args[1])
	if err != nil {
		return err
	}
	printItem(Out, it)
	if it.Description != "" {
		fmt.Fprintf(Out, "  %s\n", it.Description)
	}
	fmt.Fprintf(Out, "  date=%s  claims=%d\n", it.Date.Format("2006-01-02"), it.ClaimCount)
	return nil
}

type itemAddCmd struct{}

func (itemAddCmd) Name() string        { return "item-add" }
func (itemAddCmd) Description() string { return "Опубликовать объявление и показать совпадения" }
func (itemAddCmd) Usage() string {
	return "item-add <lost|found> <title> <category> <location> [description]"
}

func (itemAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	in := service.ItemInput{Title: &args[1], Category: &args[2], Location: &args[3]}
	if len(args) == 5 {
		in.Description = &args[4]
	}
	res, err := newRemote(cfg).Add(ctx, kind, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Объявление создано")
	printMatches(Out, res)
	return nil
}

func init() {
	RegisterCmd(itemsCmd{})
	RegisterCmd(itemGetCmd{})
	RegisterCmd(itemAddCmd{})
}
