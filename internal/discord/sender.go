package discord

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/smartcmd/pkg/retrylimit"
)

// ChannelSender sends messages through a session, throttled per channel and
// retried on rate limits and server errors.
type ChannelSender struct {
	session  *discordgo.Session
	limiters *retrylimit.KeyedLimiter
	retry    retrylimit.RetryConfig
}

func NewChannelSender(s *discordgo.Session, limiters *retrylimit.KeyedLimiter) *ChannelSender {
	return &ChannelSender{session: s, limiters: limiters, retry: retrylimit.DefaultRetryConfig()}
}

func (c *ChannelSender) Send(ctx context.Context, channelID, text string) (*discordgo.Message, error) {
	var msg *discordgo.Message
	err := c.do(ctx, channelID, func() error {
		m, err := c.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
		msg = m
		return err
	})
	return msg, err
}

func (c *ChannelSender) Edit(ctx context.Context, channelID, messageID, text string) error {
	return c.do(ctx, channelID, func() error {
		_, err := c.session.ChannelMessageEdit(channelID, messageID, text, discordgo.WithContext(ctx))
		return err
	})
}

func (c *ChannelSender) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	return c.do(ctx, channelID, func() error {
		_, err := c.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
		return err
	})
}

func (c *ChannelSender) do(ctx context.Context, channelID string, fn func() error) error {
	return retrylimit.WithRetry(ctx, func() error {
		return classify(fn())
	}, c.limiters.Get(channelID), c.retry)
}

// restError exposes the status of a failed REST call to retrylimit.
type restError struct {
	*discordgo.RESTError
}

func (e restError) StatusCode() int { return e.Response.StatusCode }

func (e restError) Unwrap() error { return e.RESTError }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Response == nil {
		return err
	}
	switch rest.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &retrylimit.FatalError{Err: restError{rest}}
	}
	return restError{rest}
}
