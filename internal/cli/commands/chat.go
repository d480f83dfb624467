package commands

import (
	"context"
	"fmt"
	"strings"

	"LostFound/internal/config"
	"LostFound/internal/model"
)

func senderName(m *model.Message) string {
	if m.Sender != nil {
		return m.Sender.Name
	}
	return fmt.Sprintf("user#%d", m.SenderID)
}

type chatCmd struct{}

func (chatCmd) Name() string        { return "chat" }
func (chatCmd) Description() string { return "Показать чат по объявлению" }
func (chatCmd) Usage() string       { return "chat <lost|found> <id>" }

func (chatCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	chat, err := newRemote(cfg).Chat(ctx, kind, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Chat %s (%d participants)\n", chat.ID, len(chat.Participants))
	if len(chat.Messages) == 0 {
		fmt.Fprintln(Out, "Сообщений нет")
		return nil
	}
	for i := range chat.Messages {
		m := &chat.Messages[i]
		fmt.Fprintf(Out, "[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), senderName(m), m.Text)
	}
	return nil
}

type sendCmd struct{}

func (sendCmd) Name() string        { return "send" }
func (sendCmd) Description() string { return "Отправить сообщение в чат объявления" }
func (sendCmd) Usage() string       { return "send <lost|found> <id> <text>" }

func (sendCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[2:], " ")
	if strings.TrimSpace(text) == "" {
		return ErrUsage
	}
	if _, err := newRemote(cfg).Send(ctx, kind, args[1], text); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Message sent")
	return nil
}

func init() {
	RegisterCmd(chatCmd{})
	RegisterCmd(sendCmd{})
}
