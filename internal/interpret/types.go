package interpret

import "fmt"

// Kind is the tag of a target type.
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger
	KindBigInteger
	KindFloat
	KindText
	KindMention
	KindCustom
)

// Category selects one of the mention collections of a Context.
type Category int

const (
	// CategoryAny matches any mentionable entity.
	CategoryAny Category = iota
	CategoryUser
	CategoryMember
	CategoryRole
	CategoryChannel
	CategoryEmote
)

func (c Category) String() string {
	switch c {
	case CategoryAny:
		return "mention"
	case CategoryUser:
		return "user"
	case CategoryMember:
		return "member"
	case CategoryRole:
		return "role"
	case CategoryChannel:
		return "channel"
	case CategoryEmote:
		return "emote"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Type describes what a token, or a run of tokens, is interpreted as.
// Types are comparable and used as registry keys.
type Type struct {
	kind     Kind
	category Category
	name     string
	array    bool
}

var (
	Int         = Type{kind: KindInteger}
	BigInt      = Type{kind: KindBigInteger}
	Float       = Type{kind: KindFloat}
	Text        = Type{kind: KindText}
	Mentionable = MentionOf(CategoryAny)
	User        = MentionOf(CategoryUser)
	Member      = MentionOf(CategoryMember)
	Role        = MentionOf(CategoryRole)
	Channel     = MentionOf(CategoryChannel)
	Emote       = MentionOf(CategoryEmote)
)

// MentionOf returns the type of an entity looked up from the context's mentions.
func MentionOf(c Category) Type {
	return Type{kind: KindMention, category: c}
}

// Custom returns a user defined scalar type. Its interpreter must be registered on a Builder.
func Custom(name string) Type {
	return Type{kind: KindCustom, name: name}
}

// ArrayOf returns the array type of elem. Arrays of arrays are not supported.
func ArrayOf(elem Type) Type {
	if elem.array {
		panic("interpret: nested array types are not supported")
	}
	elem.array = true
	return elem
}

func (t Type) Kind() Kind { return t.kind }

// Category is meaningful for mention types only.
func (t Type) Category() Category { return t.category }

func (t Type) IsArray() bool { return t.array }

// Elem returns the element type of an array type, or t itself.
func (t Type) Elem() Type {
	t.array = false
	return t
}

func (t Type) String() string {
	var s string
	switch t.kind {
	case KindInteger:
		s = "int"
	case KindBigInteger:
		s = "bigint"
	case KindFloat:
		s = "float"
	case KindText:
		s = "text"
	case KindMention:
		s = "mention(" + t.category.String() + ")"
	case KindCustom:
		s = t.name
	default:
		s = "invalid"
	}
	if t.array {
		return "[]" + s
	}
	return s
}
