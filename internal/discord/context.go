package discord

import (
	"context"
	"regexp"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/smartcmd/internal/interpret"
)

// Mention markup, matching what the tokenizer turns into snowflake tokens.
var (
	userMarkup    = regexp.MustCompile(`<@!?(\d+)>`)
	roleMarkup    = regexp.MustCompile(`<@&(\d+)>`)
	channelMarkup = regexp.MustCompile(`<#(\d+)>`)
	emoteMarkup   = regexp.MustCompile(`<a?:\w+:(\d+)>`)
)

// Sender posts to Discord channels.
type Sender interface {
	Send(ctx context.Context, channelID, text string) (*discordgo.Message, error)
	Edit(ctx context.Context, channelID, messageID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// MessageContext is the interpret.Context of one message. Every mention markup
// in the content has an entity in the matching collection: entities the event
// or the state know are used as is, the rest are id-only placeholders.
type MessageContext struct {
	Event *discordgo.MessageCreate

	ctx      context.Context
	sender   Sender
	mentions map[interpret.Category][]interpret.Entity
}

// NewMessageContext collects the mentions of m. state may be nil.
func NewMessageContext(ctx context.Context, state *discordgo.State, m *discordgo.MessageCreate, sender Sender) *MessageContext {
	c := &MessageContext{
		Event:    m,
		ctx:      ctx,
		sender:   sender,
		mentions: make(map[interpret.Category][]interpret.Entity),
	}
	c.collectUsers(state)
	c.collectRoles(state)
	c.collectChannels(state)
	c.collectEmotes()
	return c
}

func (c *MessageContext) Mentioned(cat interpret.Category) []interpret.Entity {
	return c.mentions[cat]
}

// Reply sends text to the channel the message came from.
func (c *MessageContext) Reply(text string) error {
	_, err := c.sender.Send(c.ctx, c.Event.ChannelID, text)
	return err
}

// ReplyEditable sends text and returns a function replacing it.
func (c *MessageContext) ReplyEditable(text string) (func(string) error, error) {
	msg, err := c.sender.Send(c.ctx, c.Event.ChannelID, text)
	if err != nil {
		return nil, err
	}
	return func(text string) error {
		return c.sender.Edit(c.ctx, msg.ChannelID, msg.ID, text)
	}, nil
}

// ReplyEmbed sends an embed to the channel the message came from.
func (c *MessageContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return c.sender.SendEmbed(c.ctx, c.Event.ChannelID, embed)
}

func (c *MessageContext) add(cat interpret.Category, id string, value any) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return
	}
	for _, e := range c.mentions[cat] {
		if e.ID == n {
			return
		}
	}
	c.mentions[cat] = append(c.mentions[cat], interpret.Entity{ID: n, Value: value})
}

func (c *MessageContext) collectUsers(state *discordgo.State) {
	m := c.Event
	users := make(map[string]*discordgo.User, len(m.Mentions))
	var order []string
	for _, u := range m.Mentions {
		if _, ok := users[u.ID]; !ok {
			order = append(order, u.ID)
		}
		users[u.ID] = u
	}
	for _, id := range markupIDs(userMarkup, m.Content) {
		if _, ok := users[id]; !ok {
			order = append(order, id)
			users[id] = nil
		}
	}

	for _, id := range order {
		var member *discordgo.Member
		if state != nil && m.GuildID != "" {
			member, _ = state.Member(m.GuildID, id)
		}
		user := users[id]
		if user == nil && member != nil {
			user = member.User
		}
		if user == nil {
			user = &discordgo.User{ID: id}
		}
		if member == nil {
			member = &discordgo.Member{GuildID: m.GuildID, User: user}
		}
		c.add(interpret.CategoryUser, id, user)
		c.add(interpret.CategoryMember, id, member)
	}
}

func (c *MessageContext) collectRoles(state *discordgo.State) {
	m := c.Event
	ids := append(append([]string(nil), m.MentionRoles...), markupIDs(roleMarkup, m.Content)...)
	for _, id := range ids {
		var role *discordgo.Role
		if state != nil && m.GuildID != "" {
			role, _ = state.Role(m.GuildID, id)
		}
		if role == nil {
			role = &discordgo.Role{ID: id}
		}
		c.add(interpret.CategoryRole, id, role)
	}
}

func (c *MessageContext) collectChannels(state *discordgo.State) {
	m := c.Event
	var ids []string
	for _, ch := range m.MentionChannels {
		ids = append(ids, ch.ID)
	}
	ids = append(ids, markupIDs(channelMarkup, m.Content)...)
	for _, id := range ids {
		var channel *discordgo.Channel
		if state != nil {
			channel, _ = state.Channel(id)
		}
		if channel == nil {
			channel = &discordgo.Channel{ID: id}
		}
		c.add(interpret.CategoryChannel, id, channel)
	}
}

func (c *MessageContext) collectEmotes() {
	m := c.Event
	for _, e := range m.GetCustomEmojis() {
		c.add(interpret.CategoryEmote, e.ID, e)
	}
	for _, id := range markupIDs(emoteMarkup, m.Content) {
		c.add(interpret.CategoryEmote, id, &discordgo.Emoji{ID: id})
	}
}

func markupIDs(re *regexp.Regexp, content string) []string {
	var ids []string
	for _, match := range re.FindAllStringSubmatch(content, -1) {
		ids = append(ids, match[1])
	}
	return ids
}
