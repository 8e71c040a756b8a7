// Package help lists the registered commands and the ways each can be called.
package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"

	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/version"
	"github.com/keshon/smartcmd/pkg/cmd"
)

const embedColor = 0xb01e66

// EmbedReplier is implemented by contexts that can answer with an embed.
type EmbedReplier interface {
	ReplyEmbed(e *discordgo.MessageEmbed) error
}

// New builds the help command reading from commands at run time, so commands
// registered after help still show up.
func New(reg *interpret.Registry, commands *cmd.Registry, opts ...invoke.Option) (*invoke.Command, error) {
	h := &helpCommand{commands: commands}
	return invoke.NewCommand(reg, invoke.Definition{
		Name:    "help",
		Aliases: []string{"commands"},
		Doc:     "Get a list of available commands",
		Overloads: []invoke.Overload{
			{
				Doc:     "shows how to call one command",
				Params:  []binding.Spec{binding.Simple("command", interpret.Text)},
				Handler: h.one,
			},
			{
				Doc:     "lists all commands",
				Handler: h.all,
			},
		},
	}, opts...)
}

type helpCommand struct {
	commands *cmd.Registry
}

func (h *helpCommand) all(_ context.Context, ictx interpret.Context, _ invoke.Args) error {
	var sb strings.Builder
	for _, c := range h.commands.GetAll() {
		fmt.Fprintf(&sb, "`%s` - %s\n", c.Name(), c.Description())
	}
	return reply(ictx, version.AppName+" Help", sb.String())
}

func (h *helpCommand) one(_ context.Context, ictx interpret.Context, args invoke.Args) error {
	name := args.Text(0)
	c := h.commands.Get(name)
	if c == nil {
		return ictx.Reply(fmt.Sprintf("No command called `%s`. Try `help` for the list.", name))
	}
	return reply(ictx, version.AppName+" Help: "+c.Name(), Describe(c))
}

// Describe renders the description, aliases and call forms of c.
func Describe(c cmd.Command) string {
	var sb strings.Builder
	sb.WriteString(c.Description())
	sb.WriteString("\n")
	if a, ok := cmd.Root(c).(cmd.Aliased); ok && len(a.Aliases()) > 0 {
		fmt.Fprintf(&sb, "Aliases: %s\n", strings.Join(a.Aliases(), ", "))
	}
	ic, ok := cmd.Root(c).(*invoke.Command)
	if !ok {
		return sb.String()
	}
	sb.WriteString("\n")
	for _, sig := range ic.Signatures() {
		if sig.Doc() == "" {
			fmt.Fprintf(&sb, "`%s`\n", sig.Usage())
			continue
		}
		fmt.Fprintf(&sb, "`%s` - %s\n", sig.Usage(), sig.Doc())
	}
	return sb.String()
}

func reply(ictx interpret.Context, title, body string) error {
	er, ok := ictx.(EmbedReplier)
	if !ok {
		return ictx.Reply(body)
	}
	return er.ReplyEmbed(embed.NewEmbed().
		SetTitle(title).
		SetDescription(body).
		SetColor(embedColor).
		MessageEmbed)
}
