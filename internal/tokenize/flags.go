package tokenize

import (
	"errors"
	"fmt"
)

// Flags switch tokenizer features on and off. They are validated once in New.
type Flags uint

const (
	// UseQuotes lexes "quoted text" as a single token.
	UseQuotes Flags = 1 << iota
	// StrictQuotes fails tokenization on an unterminated quote. Requires UseQuotes.
	StrictQuotes
	// SplitMentionSnowflake lexes <@123>, <@&123>, <#123> and <:name:123> as mention tokens.
	SplitMentionSnowflake
	// SplitMentionEveryone lexes @everyone as a mention token.
	SplitMentionEveryone
	// SplitMentionHere lexes @here as a mention token.
	SplitMentionHere
	// IgnoreWhitespace skips whitespace between tokens instead of returning it.
	IgnoreWhitespace
	// PureText produces only words and whitespace, no quotes and no mentions.
	PureText
)

const (
	// SplitMentions enables every kind of mention token.
	SplitMentions = SplitMentionSnowflake | SplitMentionEveryone | SplitMentionHere
	// RecommendedFlags is what most commands want.
	RecommendedFlags = UseQuotes | StrictQuotes | SplitMentions
)

// ErrInvalidFlags is returned by New and Flags.Validate for flag combinations that make no sense.
var ErrInvalidFlags = errors.New("invalid tokenizer flags")

// Has reports whether every bit of flag is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Validate checks the flag combination.
func (f Flags) Validate() error {
	switch {
	case f.Has(PureText | IgnoreWhitespace):
		return fmt.Errorf("%w: cannot ignore whitespace if pure text is on", ErrInvalidFlags)
	case f.Has(PureText | UseQuotes):
		return fmt.Errorf("%w: cannot use quotes if pure text is on", ErrInvalidFlags)
	case f.Has(StrictQuotes) && !f.Has(UseQuotes):
		return fmt.Errorf("%w: cannot use strict quotes if quotes are not used", ErrInvalidFlags)
	}
	return nil
}

func (f Flags) quotes() bool {
	return f.Has(UseQuotes) && !f.Has(PureText)
}

func (f Flags) split(flag Flags) bool {
	return f.Has(flag) && !f.Has(PureText)
}

func (f Flags) skipWhitespace() bool {
	return f.Has(IgnoreWhitespace) && !f.Has(PureText)
}
