package interpret

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/keshon/smartcmd/internal/tokenize"
)

// Builtins returns a builder holding the built-in bundles: integer, big
// integer, float, text and the mention categories. More types can be
// registered on it before Build.
func Builtins() *Builder {
	return NewBuilder().
		Register(Int, "integer", number(`^-?\d{1,10}$`, parseInt)).
		Register(Float, "number", number(`^-?\d+(\.\d+)?$`, parseFloat)).
		Register(BigInt, "integer", number(`^-?\d+$`, parseBigInt)).
		Register(Text, "text", text).
		Register(Mentionable, "mention", mention(CategoryAny)).
		Register(Role, "role", mention(CategoryRole)).
		Register(User, "user", mention(CategoryUser)).
		Register(Member, "user", mention(CategoryMember)).
		Register(Channel, "channel", mention(CategoryChannel)).
		Register(Emote, "emote", mention(CategoryEmote))
}

func text(_ Context, tok tokenize.Token) (any, error) {
	return tok.Text(), nil
}

// number gates parse behind pattern. Parse errors (overflow) are mismatches too.
func number[T any](pattern string, parse func(string) (T, error)) Interpreter {
	re := regexp.MustCompile(pattern)
	return func(_ Context, tok tokenize.Token) (any, error) {
		raw := tok.Raw()
		if !re.MatchString(raw) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMismatch, raw)
		}
		v, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMismatch, raw, err)
		}
		return v, nil
	}
}

func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

// mention looks up a snowflake token in the context. The token's mention type
// restricts which collections are searched.
func mention(c Category) Interpreter {
	return func(ctx Context, tok tokenize.Token) (any, error) {
		id, ok := tok.ID()
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a mention", ErrMismatch, tok.Raw())
		}
		searched := categoriesFor(c, tok.Mention())
		if len(searched) == 0 {
			return nil, fmt.Errorf("%w: %q is not a %s mention", ErrMismatch, tok.Raw(), c)
		}
		for _, cat := range searched {
			for _, e := range ctx.Mentioned(cat) {
				if e.ID == id {
					return e, nil
				}
			}
		}
		panic(&LookupError{Category: c, ID: id})
	}
}

func categoriesFor(c Category, m tokenize.MentionType) []Category {
	var compatible []Category
	switch m {
	case tokenize.MentionUser:
		compatible = []Category{CategoryUser, CategoryMember}
	case tokenize.MentionRole:
		compatible = []Category{CategoryRole}
	case tokenize.MentionChannel:
		compatible = []Category{CategoryChannel}
	case tokenize.MentionEmote:
		compatible = []Category{CategoryEmote}
	}
	if c == CategoryAny {
		return compatible
	}
	for _, cat := range compatible {
		if cat == c {
			return []Category{c}
		}
	}
	return nil
}
