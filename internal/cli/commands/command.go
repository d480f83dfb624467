package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"LostFound/internal/cli/api"
	fsrepo "LostFound/internal/cli/repo/fs"
	"LostFound/internal/cli/service"
	"LostFound/internal/config"
	"LostFound/internal/model"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out - общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"LostFound CLI",
		"",
		"Usage:",
		"  lfcli [--base-url <host:port>] [--token-file <path>] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-56s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// newRemote собирает клиента API с токеном из cfg.TokenFile.
func newRemote(cfg *config.Config) *service.Remote {
	return service.NewRemote(api.New(cfg.ServerURL), fsrepo.NewAuthFSStore(cfg.TokenFile))
}

// kindArg разбирает вид объявления из аргумента; неизвестный вид - ошибка использования.
func kindArg(s string) (model.ItemKind, error) {
	k, ok := model.ParseItemKind(s)
	if !ok {
		return "", ErrUsage
	}
	return k, nil
}
