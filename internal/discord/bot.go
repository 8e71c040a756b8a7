package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
	"github.com/keshon/smartcmd/internal/config"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/middleware"
	"github.com/keshon/smartcmd/pkg/retrylimit"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const EmbedColor = 0xb01e66

// Bot answers prefixed text commands.
type Bot struct {
	cfg        *config.Config
	dispatcher *invoke.Dispatcher
	log        zerolog.Logger

	dg     *discordgo.Session
	sender Sender
	ctx    context.Context

	mu       sync.RWMutex
	prefixes []string
}

func NewBot(cfg *config.Config, d *invoke.Dispatcher, log zerolog.Logger) *Bot {
	return &Bot{
		cfg:        cfg,
		dispatcher: d,
		log:        log,
		prefixes:   []string{cfg.CommandPrefix},
	}
}

// Run connects and serves until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.ctx = b.log.WithContext(ctx)
	b.sender = NewChannelSender(dg, retrylimit.NewKeyedLimiter(retrylimit.LimiterConfig{
		Rate:  rate.Limit(b.cfg.ReplyRate),
		Burst: b.cfg.ReplyBurst,
	}))

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.prefixes = []string{b.cfg.CommandPrefix, "<@" + r.User.ID + ">", "<@!" + r.User.ID + ">"}
	b.mu.Unlock()
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	b.mu.RLock()
	name, args, ok := SplitCommand(m.Content, b.prefixes...)
	b.mu.RUnlock()
	if !ok {
		return
	}

	ctx := b.log.With().Str("guild", m.GuildID).Str("channel", m.ChannelID).Str("user", m.Author.ID).Logger().WithContext(b.ctx)
	ictx := NewMessageContext(ctx, s.State, m, b.sender)
	b.handle(ctx, ictx, name, args)
}

// handle dispatches one command and reports errors the invoker should see.
func (b *Bot) handle(ctx context.Context, ictx *MessageContext, name, args string) {
	log := zerolog.Ctx(ctx)
	_, err := b.dispatcher.Dispatch(ctx, ictx, name, args)
	switch {
	case err == nil:
	case errors.Is(err, invoke.ErrUnknownCommand):
		log.Debug().Str("command", name).Msg("Unknown command")
	case errors.Is(err, invoke.ErrNoMatch):
		// the diagnoser has logged the closest signature
	case errors.Is(err, middleware.ErrArgumentTooLong):
		if rerr := ictx.Reply("That is too much text for me to read."); rerr != nil {
			log.Warn().Err(rerr).Msg("Failed to reply")
		}
	default:
		log.Error().Err(err).Str("command", name).Msg("Error running command")
		e := embed.NewEmbed().
			SetColor(EmbedColor).
			SetDescription(fmt.Sprintf("Error running command: %v", err)).
			MessageEmbed
		if rerr := ictx.ReplyEmbed(e); rerr != nil {
			log.Warn().Err(rerr).Msg("Failed to reply")
		}
	}
}

// LogClosest is a diagnoser logging the signature that got furthest.
func LogClosest(ctx context.Context, _ interpret.Context, c *invoke.Command, best *invoke.Failure) {
	ev := zerolog.Ctx(ctx).Info().Str("command", c.Name())
	if best != nil {
		ev = ev.Str("closest", best.Signature.Usage()).Float64("confidence", best.Confidence).Err(best.Err)
	}
	ev.Msg("No signature matched")
}

// SplitCommand cuts the first matching prefix off content and splits the rest
// into the command name and its argument text.
func SplitCommand(content string, prefixes ...string) (name, args string, ok bool) {
	content = strings.TrimLeftFunc(content, unicode.IsSpace)
	var rest string
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			rest = strings.TrimLeftFunc(content[len(p):], unicode.IsSpace)
			ok = true
			break
		}
	}
	if !ok {
		return "", "", false
	}
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	name = rest[:end]
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimLeftFunc(rest[end:], unicode.IsSpace), true
}
