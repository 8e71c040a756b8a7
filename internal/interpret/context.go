package interpret

import "fmt"

// Entity is a mentioned object, keyed by its numeric id. Value is whatever the
// transport uses for it (for Discord a *discordgo.User, *discordgo.Role, ...).
type Entity struct {
	ID    uint64
	Value any
}

// Context is what the engine needs from an invocation: the entities mentioned in
// the message and a way to talk back to the invoker.
type Context interface {
	// Mentioned returns the entities of one concrete category. It is never called with CategoryAny.
	Mentioned(c Category) []Entity
	// Reply sends diagnostic text to the invoker.
	Reply(text string) error
}

// LookupError is the panic value raised when a lexically valid mention is not
// present in the context. Contexts guarantee that every mention in the message is
// in its collection, so this is a bug, not a user error.
type LookupError struct {
	Category Category
	ID       uint64
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s with id %d in the message mentions", e.Category, e.ID)
}
