// Package console runs commands read line by line from a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/keshon/smartcmd/internal/interpret"
	"github.com/keshon/smartcmd/internal/invoke"
	"github.com/keshon/smartcmd/internal/tokenize"
)

// Context is an interpret.Context for one typed line. Every mention markup in
// the line resolves to a placeholder holding the markup itself.
type Context struct {
	mu       sync.Mutex
	out      io.Writer
	mentions map[interpret.Category][]interpret.Entity
}

// NewContext scans line for mentions and writes replies to out.
func NewContext(line string, out io.Writer) *Context {
	c := &Context{out: out, mentions: make(map[interpret.Category][]interpret.Entity)}
	tz, err := tokenize.New(line, tokenize.SplitMentionSnowflake)
	if err != nil {
		return c
	}
	seen := make(map[tokenize.MentionType]map[uint64]bool)
	for {
		tok, err := tz.Next()
		if err != nil {
			break
		}
		id, ok := tok.ID()
		if !ok {
			continue
		}
		if seen[tok.Mention()] == nil {
			seen[tok.Mention()] = make(map[uint64]bool)
		}
		if seen[tok.Mention()][id] {
			continue
		}
		seen[tok.Mention()][id] = true
		for _, cat := range categories(tok.Mention()) {
			c.mentions[cat] = append(c.mentions[cat], interpret.Entity{ID: id, Value: tok.Raw()})
		}
	}
	return c
}

func categories(m tokenize.MentionType) []interpret.Category {
	switch m {
	case tokenize.MentionUser:
		return []interpret.Category{interpret.CategoryUser, interpret.CategoryMember}
	case tokenize.MentionRole:
		return []interpret.Category{interpret.CategoryRole}
	case tokenize.MentionChannel:
		return []interpret.Category{interpret.CategoryChannel}
	case tokenize.MentionEmote:
		return []interpret.Category{interpret.CategoryEmote}
	}
	return nil
}

func (c *Context) Mentioned(cat interpret.Category) []interpret.Entity {
	return c.mentions[cat]
}

func (c *Context) Reply(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// Serve reads commands from in until EOF or ctx is done. Lines look like
// "roll 2d6"; blank lines are skipped.
func Serve(ctx context.Context, d *invoke.Dispatcher, in io.Reader, out io.Writer) error {
	log := zerolog.Ctx(ctx)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		name, args := line, ""
		if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
			name, args = line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
		}

		ictx := NewContext(args, out)
		_, err := d.Dispatch(ctx, ictx, name, args)
		switch {
		case err == nil:
		case errors.Is(err, invoke.ErrUnknownCommand):
			fmt.Fprintf(out, "unknown command %q, try help\n", name)
		case errors.Is(err, invoke.ErrNoMatch):
			var nm *invoke.NoMatchError
			if errors.As(err, &nm) && nm.Best != nil {
				fmt.Fprintf(out, "usage: %s\n", nm.Best.Signature.Usage())
			}
		default:
			log.Error().Err(err).Str("command", name).Msg("Error running command")
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return sc.Err()
}
