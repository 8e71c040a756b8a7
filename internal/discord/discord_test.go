package discord

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/smartcmd/internal/binding"
	"github.com/keshon/smartcmd/internal/config"
	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/middleware"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	edits  []string
	embeds []*discordgo.MessageEmbed
}

func (f *fakeSender) Send(_ context.Context, channelID, text string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return &discordgo.Message{ID: "m1", ChannelID: channelID, Content: text}, nil
}

func (f *fakeSender) Edit(_ context.Context, _, messageID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, messageID+":"+text)
	return nil
}

func (f *fakeSender) SendEmbed(_ context.Context, _ string, embed *discordgo.MessageEmbed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.embeds = append(f.embeds, embed)
	return nil
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		content  string
		prefixes []string
		name     string
		args     string
		ok       bool
	}{
		{"!roll 2 6", []string{"!"}, "roll", "2 6", true},
		{"  !roll", []string{"!"}, "roll", "", true},
		{"! ping   now ", []string{"!"}, "ping", "now ", true},
		{"<@99> roll 2d6", []string{"!", "<@99>"}, "roll", "2d6", true},
		{"roll 2", []string{"!"}, "", "", false},
		{"!", []string{"!"}, "", "", false},
		{"!roll", []string{""}, "", "", false},
		{">>say \"a b\"", []string{">>"}, "say", `"a b"`, true},
	}
	for _, tt := range tests {
		name, args, ok := SplitCommand(tt.content, tt.prefixes...)
		if name != tt.name || args != tt.args || ok != tt.ok {
			t.Errorf("SplitCommand(%q) = %q, %q, %v; want %q, %q, %v", tt.content, name, args, ok, tt.name, tt.args, tt.ok)
		}
	}
}

func testState(t *testing.T) *discordgo.State {
	t.Helper()
	state := discordgo.NewState()
	steps := []error{
		state.GuildAdd(&discordgo.Guild{ID: "10"}),
		state.MemberAdd(&discordgo.Member{GuildID: "10", Nick: "Seven", User: &discordgo.User{ID: "7", Username: "seven"}}),
		state.RoleAdd("10", &discordgo.Role{ID: "20", Name: "mods"}),
		state.ChannelAdd(&discordgo.Channel{ID: "30", GuildID: "10", Name: "general"}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	return state
}

func message(content string, mentions ...*discordgo.User) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "1",
		GuildID:   "10",
		ChannelID: "30",
		Content:   content,
		Author:    &discordgo.User{ID: "5"},
		Mentions:  mentions,
	}}
}

func ids(entities []interpret.Entity) []uint64 {
	out := make([]uint64, len(entities))
	for i, e := range entities {
		out[i] = e.ID
	}
	return out
}

func TestMessageContextMentions(t *testing.T) {
	const emote = "123456789012345678"
	m := message("!x <@7> <@!8> <@7> <@&20> <@&21> <#30> <#31> <:blob:"+emote+"> <a:dance:41>",
		&discordgo.User{ID: "7", Username: "seven"})
	c := NewMessageContext(context.Background(), testState(t), m, &fakeSender{})

	want := map[interpret.Category][]uint64{
		interpret.CategoryUser:    {7, 8},
		interpret.CategoryMember:  {7, 8},
		interpret.CategoryRole:    {20, 21},
		interpret.CategoryChannel: {30, 31},
		interpret.CategoryEmote:   {123456789012345678, 41},
	}
	for cat, wantIDs := range want {
		got := ids(c.Mentioned(cat))
		if len(got) != len(wantIDs) {
			t.Errorf("%s ids = %v, want %v", cat, got, wantIDs)
			continue
		}
		for i := range got {
			if got[i] != wantIDs[i] {
				t.Errorf("%s ids = %v, want %v", cat, got, wantIDs)
				break
			}
		}
	}

	members := c.Mentioned(interpret.CategoryMember)
	if nick := members[0].Value.(*discordgo.Member).Nick; nick != "Seven" {
		t.Errorf("member from state nick = %q", nick)
	}
	if partial := members[1].Value.(*discordgo.Member); partial.GuildID != "10" || partial.User.ID != "8" {
		t.Errorf("partial member = %+v", partial)
	}
	if name := c.Mentioned(interpret.CategoryRole)[0].Value.(*discordgo.Role).Name; name != "mods" {
		t.Errorf("role name = %q", name)
	}
	if name := c.Mentioned(interpret.CategoryChannel)[0].Value.(*discordgo.Channel).Name; name != "general" {
		t.Errorf("channel name = %q", name)
	}
	if c.Mentioned(interpret.CategoryUser)[0].Value.(*discordgo.User).Username != "seven" {
		t.Error("user from the event lost")
	}
}

func TestMessageContextWithoutState(t *testing.T) {
	m := message("!x <@7> <@&20> <#30>")
	m.GuildID = ""
	c := NewMessageContext(context.Background(), nil, m, &fakeSender{})
	for _, cat := range []interpret.Category{interpret.CategoryUser, interpret.CategoryMember, interpret.CategoryRole, interpret.CategoryChannel} {
		if len(c.Mentioned(cat)) != 1 {
			t.Errorf("%s = %v", cat, c.Mentioned(cat))
		}
	}
}

func TestReplies(t *testing.T) {
	sender := &fakeSender{}
	c := NewMessageContext(context.Background(), nil, message("!ping"), sender)
	if err := c.Reply("hello"); err != nil {
		t.Fatal(err)
	}
	edit, err := c.ReplyEditable("pong!")
	if err != nil {
		t.Fatal(err)
	}
	if err := edit("pong! took 3 ms"); err != nil {
		t.Fatal(err)
	}
	if strings.Join(sender.sent, "|") != "hello|pong!" || len(sender.edits) != 1 || sender.edits[0] != "m1:pong! took 3 ms" {
		t.Fatalf("sent = %q, edits = %q", sender.sent, sender.edits)
	}
}

func TestHandle(t *testing.T) {
	d := invoke.NewDispatcher(interpret.Default(), middleware.WithArgumentLimit(10))
	var who *discordgo.Member
	mustRegister := func(def invoke.Definition) {
		if _, err := d.Register(def, invoke.WithDiagnoser(LogClosest)); err != nil {
			t.Fatal(err)
		}
	}
	mustRegister(invoke.Definition{Name: "who", Overloads: []invoke.Overload{{
		Params: []binding.Spec{binding.Simple("member", interpret.Member)},
		Handler: func(_ context.Context, _ interpret.Context, args invoke.Args) error {
			who = args.Entity(0).Value.(*discordgo.Member)
			return nil
		},
	}}})
	mustRegister(invoke.Definition{Name: "boom", Overloads: []invoke.Overload{{
		Handler: func(context.Context, interpret.Context, invoke.Args) error { return errors.New("kaput") },
	}}})

	b := NewBot(&config.Config{CommandPrefix: "!"}, d, zerolog.Nop())
	run := func(content string) *fakeSender {
		sender := &fakeSender{}
		m := message(content)
		name, args, ok := SplitCommand(m.Content, "!")
		if !ok {
			t.Fatalf("%q is not a command", content)
		}
		b.handle(context.Background(), NewMessageContext(context.Background(), testState(t), m, sender), name, args)
		return sender
	}

	if s := run("!who <@7>"); len(s.sent)+len(s.embeds) != 0 || who == nil || who.Nick != "Seven" {
		t.Fatalf("who = %+v, sent %q", who, s.sent)
	}
	if s := run("!nope"); len(s.sent)+len(s.embeds) != 0 {
		t.Fatalf("unknown command replied %q", s.sent)
	}
	if s := run("!who nobody"); len(s.sent)+len(s.embeds) != 0 {
		t.Fatalf("no match replied %q", s.sent)
	}
	if s := run("!who <@7> and a lot more"); len(s.sent) != 1 || !strings.Contains(s.sent[0], "too much text") {
		t.Fatalf("long arguments replied %q", s.sent)
	}
	s := run("!boom")
	if len(s.embeds) != 1 || !strings.Contains(s.embeds[0].Description, "kaput") || s.embeds[0].Color != EmbedColor {
		t.Fatalf("error embeds = %+v", s.embeds)
	}
	if s := run(`!who "<@7>`); len(s.sent) != 1 || !strings.HasPrefix(s.sent[0], "Your message is not formatted correctly.") {
		t.Fatalf("tokenizer failure replied %q", s.sent)
	}
}
