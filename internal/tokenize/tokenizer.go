// Package tokenize splits command argument text into tokens on demand.
//
// A Tokenizer is created per invocation and must not be shared between
// goroutines. Offsets (cursor, marks, error ranges) are byte offsets into the
// source string.
package tokenize

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidMark is returned by Restore for a mark outside the source.
var ErrInvalidMark = errors.New("invalid tokenizer mark")

var snowflakePatterns = []struct {
	mention MentionType
	re      *regexp.Regexp
}{
	{MentionUser, regexp.MustCompile(`^<@!?(\d+)>$`)},
	{MentionRole, regexp.MustCompile(`^<@&(\d+)>$`)},
	{MentionChannel, regexp.MustCompile(`^<#(\d+)>$`)},
	{MentionEmote, regexp.MustCompile(`^<a?:\w+:(\d+)>$`)},
}

// Tokenizer is a cursor based lexer over a single source string.
type Tokenizer struct {
	source string
	cursor int
	flags  Flags
}

// New returns a tokenizer over source. It fails if flags is not a valid combination.
func New(source string, flags Flags) (*Tokenizer, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	t := &Tokenizer{source: source, flags: flags}
	t.skipWhitespace()
	return t, nil
}

// Flags returns the flags the tokenizer was built with.
func (t *Tokenizer) Flags() Flags { return t.flags }

// HasNext reports whether any input is left.
func (t *Tokenizer) HasNext() bool {
	return t.cursor < len(t.source)
}

// Next returns the next token, or io.EOF when the input is exhausted.
// A *Error is returned when the input at the cursor cannot be tokenized.
func (t *Tokenizer) Next() (Token, error) {
	if !t.HasNext() {
		return Token{}, io.EOF
	}
	tok, err := t.lex()
	if err != nil {
		return Token{}, err
	}
	t.skipWhitespace()
	return tok, nil
}

// Remaining consumes all unconsumed input and returns it as one token.
// It returns false when nothing is left.
func (t *Tokenizer) Remaining() (Token, bool) {
	if !t.HasNext() {
		return Token{}, false
	}
	raw := t.source[t.cursor:]
	t.cursor = len(t.source)
	return Word(raw), true
}

// Mark returns the current position so it can be restored later.
func (t *Tokenizer) Mark() int {
	return t.cursor
}

// Restore moves the cursor back to a position returned by Mark.
func (t *Tokenizer) Restore(mark int) error {
	if mark < 0 || mark > len(t.source) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMark, mark, len(t.source))
	}
	t.cursor = mark
	return nil
}

func (t *Tokenizer) lex() (Token, error) {
	r, _ := utf8.DecodeRuneInString(t.source[t.cursor:])
	switch r {
	case '<':
		if tok, ok := t.snowflakeAt(t.cursor); ok {
			t.cursor += len(tok.raw)
			return tok, nil
		}
	case '"':
		if t.flags.quotes() {
			tok, ok, err := t.quoted()
			if err != nil {
				return Token{}, err
			}
			if ok {
				return tok, nil
			}
		}
	case '@':
		if tok, ok := t.specialAt(t.cursor); ok {
			t.cursor += len(tok.raw)
			return tok, nil
		}
	default:
		if unicode.IsSpace(r) {
			return t.whitespace(), nil
		}
	}
	return t.word(), nil
}

func (t *Tokenizer) take(end int) Token {
	tok := Word(t.source[t.cursor:end])
	t.cursor = end
	return tok
}

func (t *Tokenizer) skipWhitespace() {
	if !t.flags.skipWhitespace() {
		return
	}
	for t.cursor < len(t.source) {
		r, size := utf8.DecodeRuneInString(t.source[t.cursor:])
		if !unicode.IsSpace(r) {
			return
		}
		t.cursor += size
	}
}

func (t *Tokenizer) whitespace() Token {
	end := t.cursor
	for end < len(t.source) {
		r, size := utf8.DecodeRuneInString(t.source[end:])
		if !unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return t.take(end)
}

// word cuts at the first whitespace or at the first position where a mention starts.
func (t *Tokenizer) word() Token {
	start := t.cursor
	end := start
	for end < len(t.source) {
		r, size := utf8.DecodeRuneInString(t.source[end:])
		if unicode.IsSpace(r) {
			break
		}
		if end > start && t.mentionAt(end) {
			break
		}
		end += size
	}
	return t.take(end)
}

// quoted lexes a quoted literal at the cursor. A literal closes at a quote that
// is followed by whitespace or the end of input; "" inside it is one quote.
// ok is false when the literal is unterminated and StrictQuotes is off.
func (t *Tokenizer) quoted() (tok Token, ok bool, err error) {
	open := t.cursor
	cut := open + 1
	pending := false
	var b strings.Builder
	for i := open + 1; i < len(t.source); {
		r, size := utf8.DecodeRuneInString(t.source[i:])
		switch {
		case r == '"':
			if pending {
				b.WriteString(t.source[cut : i-1])
				cut = i
				pending = false
			} else {
				pending = true
			}
		case unicode.IsSpace(r):
			if pending {
				b.WriteString(t.source[cut : i-1])
				t.cursor = i
				return Quoted(t.source[open:i], b.String()), true, nil
			}
		default:
			pending = false
		}
		i += size
	}
	if pending {
		b.WriteString(t.source[cut : len(t.source)-1])
		t.cursor = len(t.source)
		return Quoted(t.source[open:], b.String()), true, nil
	}
	if t.flags.Has(StrictQuotes) {
		return Token{}, false, &Error{Type: UnbalancedQuotes, Start: open, End: len(t.source)}
	}
	return Token{}, false, nil
}

func (t *Tokenizer) mentionAt(i int) bool {
	switch t.source[i] {
	case '<':
		_, ok := t.snowflakeAt(i)
		return ok
	case '@':
		_, ok := t.specialAt(i)
		return ok
	}
	return false
}

func (t *Tokenizer) specialAt(i int) (Token, bool) {
	rest := t.source[i:]
	if t.flags.split(SplitMentionEveryone) && strings.HasPrefix(rest, Everyone.raw) {
		return Everyone, true
	}
	if t.flags.split(SplitMentionHere) && strings.HasPrefix(rest, Here.raw) {
		return Here, true
	}
	return Token{}, false
}

func (t *Tokenizer) snowflakeAt(i int) (Token, bool) {
	if !t.flags.split(SplitMentionSnowflake) || t.source[i] != '<' {
		return Token{}, false
	}
	end := strings.IndexByte(t.source[i:], '>')
	if end < 0 {
		return Token{}, false
	}
	literal := t.source[i : i+end+1]
	for _, p := range snowflakePatterns {
		m := p.re.FindStringSubmatch(literal)
		if m == nil {
			continue
		}
		id, err := strconv.ParseUint(m[len(m)-1], 10, 64)
		if err != nil || id == 0 {
			return Token{}, false
		}
		return Snowflake(literal, p.mention, id), true
	}
	return Token{}, false
}
