package tokenize

import (
	"fmt"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	KindWord Kind = iota
	KindWhitespace
	KindQuoted
	KindMention
	KindSnowflake
)

func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindWhitespace:
		return "whitespace"
	case KindQuoted:
		return "quoted"
	case KindMention:
		return "mention"
	case KindSnowflake:
		return "snowflake"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MentionType is the kind of entity a mention token refers to.
type MentionType int

const (
	MentionNone MentionType = iota
	MentionUser
	MentionRole
	MentionChannel
	MentionEmote
	MentionEveryone
	MentionHere
)

func (m MentionType) String() string {
	switch m {
	case MentionNone:
		return "none"
	case MentionUser:
		return "user"
	case MentionRole:
		return "role"
	case MentionChannel:
		return "channel"
	case MentionEmote:
		return "emote"
	case MentionEveryone:
		return "everyone"
	case MentionHere:
		return "here"
	default:
		return fmt.Sprintf("mention(%d)", int(m))
	}
}

// Token is one lexical unit. Raw is the exact source span and is never empty.
type Token struct {
	raw     string
	text    string
	kind    Kind
	mention MentionType
	id      uint64
}

// Everyone and Here are the broadcast mention tokens.
var (
	Everyone = Token{raw: "@everyone", text: "@everyone", kind: KindMention, mention: MentionEveryone}
	Here     = Token{raw: "@here", text: "@here", kind: KindMention, mention: MentionHere}
)

// Word returns a plain token, or a whitespace token if raw is blank.
func Word(raw string) Token {
	if raw == "" {
		panic("tokenize: empty token")
	}
	kind := KindWord
	if strings.TrimSpace(raw) == "" {
		kind = KindWhitespace
	}
	return Token{raw: raw, text: raw, kind: kind}
}

// Quoted returns a quoted literal token. raw includes the quotes, text is the decoded content.
func Quoted(raw, text string) Token {
	if raw == "" {
		panic("tokenize: empty token")
	}
	return Token{raw: raw, text: text, kind: KindQuoted}
}

// Snowflake returns a mention token that embeds an entity id.
func Snowflake(raw string, mention MentionType, id uint64) Token {
	if raw == "" {
		panic("tokenize: empty token")
	}
	return Token{raw: raw, text: raw, kind: KindSnowflake, mention: mention, id: id}
}

// Raw returns the exact source text of the token.
func (t Token) Raw() string { return t.raw }

// Text returns the token's value as text. Quoted tokens lose their quotes here.
func (t Token) Text() string { return t.text }

func (t Token) Kind() Kind { return t.kind }

// Mention returns the mention type, MentionNone for non-mention tokens.
func (t Token) Mention() MentionType { return t.mention }

// ID returns the embedded id of a snowflake token.
func (t Token) ID() (uint64, bool) {
	return t.id, t.kind == KindSnowflake
}

// IsBlank reports whether the token is pure whitespace.
func (t Token) IsBlank() bool {
	return t.kind == KindWhitespace
}

func (t Token) String() string {
	if t.kind == KindSnowflake {
		return fmt.Sprintf("%s:%s(%s->%d)", t.kind, t.raw, t.mention, t.id)
	}
	return t.kind.String() + ":" + t.raw
}
