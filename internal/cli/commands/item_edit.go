package commands

import (
	"context"
	"fmt"
	"strings"

	"LostFound/internal/cli/service"
	"LostFound/internal/config"
)

type itemEditCmd struct{}

func (itemEditCmd) Name() string        { return "item-edit" }
func (itemEditCmd) Description() string { return "Изменить поля объявления (field=value)" }
func (itemEditCmd) Usage() string {
	return "item-edit <lost|found> <id> <field=value>..."
}

// parseEdits разбирает пары field=value. Поддерживаются поля ItemInput.
func parseEdits(pairs []string) (service.ItemInput, error) {
	var in service.ItemInput
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return in, ErrUsage
		}
		v := value
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "title":
			in.Title = &v
		case "description":
			in.Description = &v
		case "category":
			in.Category = &v
		case "location":
			in.Location = &v
		case "date":
			in.Date = &v
		case "image":
			in.Image = &v
		case "status":
			in.Status = &v
		default:
			return in, fmt.Errorf("unknown field %q", key)
		}
	}
	return in, nil
}

func (itemEditCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	in, err := parseEdits(args[2:])
	if err != nil {
		return err
	}
	res, err := newRemote(cfg).Edit(ctx, kind, args[1], in)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Объявление обновлено")
	printMatches(Out, res)
	return nil
}

type itemDeleteCmd struct{}

func (itemDeleteCmd) Name() string        { return "item-delete" }
func (itemDeleteCmd) Description() string { return "Удалить своё объявление вместе с заявками" }
func (itemDeleteCmd) Usage() string       { return "item-delete <lost|found> <id>" }

func (itemDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	if err := newRemote(cfg).Delete(ctx, kind, args[1]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Объявление удалено")
	return nil
}

func init() {
	RegisterCmd(itemEditCmd{})
	RegisterCmd(itemDeleteCmd{})
}
